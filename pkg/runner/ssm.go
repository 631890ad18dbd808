/*
 * Copyright (c) 2026, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package runner

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	internalaws "github.com/pegasus-kv/pegasus-check/internal/aws"
	"github.com/pegasus-kv/pegasus-check/internal/logger"
)

const (
	ssmDocumentName = "AWS-RunShellScript"
	// DefaultPollInterval is how often command invocations are polled.
	DefaultPollInterval = 2 * time.Second
	// SSMOutputLimit is the number of stdout characters GetCommandInvocation
	// returns at most. Longer output is cut silently.
	SSMOutputLimit = 24000
)

// ErrOutputTruncated is returned when SSM may have dropped part of the
// command output.
var ErrOutputTruncated = fmt.Errorf("output truncated by SSM at %d characters", SSMOutputLimit)

// SSM runs the admin shell on an EC2 instance through AWS Systems Manager
// Run Command.
type SSM struct {
	log        *logger.FunLogger
	client     internalaws.SSMClient
	shellPath  string
	timeout    time.Duration
	instanceID string
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
}

var _ Runner = (*SSM)(nil)

// NewSSM creates a runner targeting instanceID through client.
func NewSSM(log *logger.FunLogger, client internalaws.SSMClient, shellPath string, timeout time.Duration, instanceID string) (*SSM, error) {
	if client == nil {
		return nil, fmt.Errorf("ssm client is required")
	}
	if instanceID == "" {
		return nil, fmt.Errorf("ssm instance id is required")
	}
	return &SSM{
		log:          log,
		client:       client,
		shellPath:    shellPath,
		timeout:      timeout,
		instanceID:   instanceID,
		PollInterval: DefaultPollInterval,
	}, nil
}

// Run implements Runner.
func (r *SSM) Run(ctx context.Context, cluster, command string) (Result, error) {
	cmdline := ShellCommand(r.shellPath, cluster, command)
	r.log.Debug("sending command to %s: %q", r.instanceID, cmdline)

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	execErr := &ExecutionError{Cluster: cluster, Command: cmdline, ExitStatus: -1}

	sent, err := r.client.SendCommand(ctx, &ssm.SendCommandInput{
		DocumentName: aws.String(ssmDocumentName),
		InstanceIds:  []string{r.instanceID},
		Parameters:   map[string][]string{"commands": {cmdline}},
	})
	if err != nil {
		execErr.Err = wrapContextErr(ctx, fmt.Errorf("failed to send command: %w", err))
		return Result{}, execErr
	}
	if sent.Command == nil || sent.Command.CommandId == nil {
		execErr.Err = fmt.Errorf("send command returned no command id")
		return Result{}, execErr
	}
	commandID := aws.ToString(sent.Command.CommandId)

	interval := r.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.cancel(commandID)
			execErr.Err = ctx.Err()
			return Result{}, execErr
		case <-ticker.C:
		}

		inv, err := r.client.GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
			CommandId:  aws.String(commandID),
			InstanceId: aws.String(r.instanceID),
		})
		if err != nil {
			var notYet *ssmtypes.InvocationDoesNotExist
			if errors.As(err, &notYet) {
				continue
			}
			if ctx.Err() != nil {
				r.cancel(commandID)
				execErr.Err = ctx.Err()
				return Result{}, execErr
			}
			execErr.Err = fmt.Errorf("failed to get command invocation: %w", err)
			return Result{}, execErr
		}

		r.log.Trace("command %s on %s is %s", commandID, r.instanceID, inv.Status)
		switch inv.Status {
		case ssmtypes.CommandInvocationStatusPending,
			ssmtypes.CommandInvocationStatusInProgress,
			ssmtypes.CommandInvocationStatusDelayed:
			continue
		}

		result := Result{
			ExitStatus: int(inv.ResponseCode),
			Output:     aws.ToString(inv.StandardOutputContent) + aws.ToString(inv.StandardErrorContent),
		}
		switch inv.Status {
		case ssmtypes.CommandInvocationStatusSuccess:
			if utf8.RuneCountInString(aws.ToString(inv.StandardOutputContent)) >= SSMOutputLimit {
				execErr.Err = ErrOutputTruncated
				return result, execErr
			}
			return result, nil
		case ssmtypes.CommandInvocationStatusFailed:
			execErr.Output = result.Output
			execErr.ExitStatus = result.ExitStatus
			return result, execErr
		case ssmtypes.CommandInvocationStatusTimedOut:
			execErr.Output = result.Output
			execErr.Err = context.DeadlineExceeded
			return result, execErr
		default:
			execErr.Output = result.Output
			execErr.Err = fmt.Errorf("command %s ended with status %s", commandID, inv.Status)
			return result, execErr
		}
	}
}

// cancel asks SSM to stop a command whose caller gave up on it.
func (r *SSM) cancel(commandID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := r.client.CancelCommand(ctx, &ssm.CancelCommandInput{
		CommandId:   aws.String(commandID),
		InstanceIds: []string{r.instanceID},
	}); err != nil {
		r.log.Warning("failed to cancel command %s: %v", commandID, err)
	}
}

func wrapContextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
