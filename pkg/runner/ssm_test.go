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

package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/runner"
	"github.com/pegasus-kv/pegasus-check/pkg/testutil/mocks"
)

var _ = Describe("SSM", func() {
	var (
		log    *logger.FunLogger
		client *mocks.MockSSMClient
	)

	newRunner := func(timeout time.Duration) *runner.SSM {
		r, err := runner.NewSSM(log, client, "/opt/pegasus", timeout, "i-0123456789abcdef0")
		Expect(err).NotTo(HaveOccurred())
		r.PollInterval = 10 * time.Millisecond
		return r
	}

	BeforeEach(func() {
		log = logger.NewLogger()
		log.Out = &bytes.Buffer{}
		client = &mocks.MockSSMClient{}
	})

	It("rejects missing parameters", func() {
		_, err := runner.NewSSM(log, nil, "/opt/pegasus", time.Minute, "i-1")
		Expect(err).To(HaveOccurred())
		_, err = runner.NewSSM(log, client, "/opt/pegasus", time.Minute, "")
		Expect(err).To(HaveOccurred())
	})

	It("sends the admin shell command line through RunShellScript", func() {
		client.GetCommandInvocationFunc = func(_ context.Context, params *ssm.GetCommandInvocationInput, _ ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
			Expect(aws.ToString(params.InstanceId)).To(Equal("i-0123456789abcdef0"))
			return &ssm.GetCommandInvocationOutput{
				Status:                ssmtypes.CommandInvocationStatusSuccess,
				StandardOutputContent: aws.String("nodes output\n"),
			}, nil
		}

		result, err := newRunner(time.Minute).Run(context.Background(), "c3srv-a", "nodes -d")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Output).To(Equal("nodes output\n"))
		sent := client.Sent()
		Expect(sent).To(HaveLen(1))
		Expect(aws.ToString(sent[0].DocumentName)).To(Equal("AWS-RunShellScript"))
		Expect(sent[0].InstanceIds).To(ConsistOf("i-0123456789abcdef0"))
		Expect(sent[0].Parameters["commands"]).To(ConsistOf(
			runner.ShellCommand("/opt/pegasus", "c3srv-a", "nodes -d")))
	})

	It("keeps polling while the invocation is pending", func() {
		statuses := []ssmtypes.CommandInvocationStatus{
			ssmtypes.CommandInvocationStatusPending,
			ssmtypes.CommandInvocationStatusInProgress,
			ssmtypes.CommandInvocationStatusSuccess,
		}
		calls := 0
		client.GetCommandInvocationFunc = func(context.Context, *ssm.GetCommandInvocationInput, ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
			if calls == 0 {
				calls++
				return nil, &ssmtypes.InvocationDoesNotExist{}
			}
			status := statuses[calls-1]
			calls++
			return &ssm.GetCommandInvocationOutput{Status: status}, nil
		}

		_, err := newRunner(time.Minute).Run(context.Background(), "c3srv-a", "ls -d")

		Expect(err).NotTo(HaveOccurred())
		Expect(client.Polls()).To(Equal(4))
	})

	It("reports a failed invocation with its response code", func() {
		client.GetCommandInvocationFunc = func(context.Context, *ssm.GetCommandInvocationInput, ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
			return &ssm.GetCommandInvocationOutput{
				Status:               ssmtypes.CommandInvocationStatusFailed,
				ResponseCode:         1,
				StandardErrorContent: aws.String("run.sh: not found\n"),
			}, nil
		}

		_, err := newRunner(time.Minute).Run(context.Background(), "c3srv-a", "ls -d")

		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(execErr.ExitStatus).To(Equal(1))
		Expect(execErr.Output).To(ContainSubstring("run.sh: not found"))
	})

	It("rejects output cut at the SSM limit", func() {
		client.GetCommandInvocationFunc = func(context.Context, *ssm.GetCommandInvocationInput, ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
			return &ssm.GetCommandInvocationOutput{
				Status:                ssmtypes.CommandInvocationStatusSuccess,
				StandardOutputContent: aws.String(strings.Repeat("x", runner.SSMOutputLimit)),
			}, nil
		}

		result, err := newRunner(time.Minute).Run(context.Background(), "c3srv-a", "nodes -d")

		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(err).To(MatchError(runner.ErrOutputTruncated))
		Expect(err.Error()).To(ContainSubstring("output truncated by SSM at 24000 characters"))
		Expect(result.Output).To(HaveLen(runner.SSMOutputLimit))
	})

	It("accepts output just below the SSM limit", func() {
		client.GetCommandInvocationFunc = func(context.Context, *ssm.GetCommandInvocationInput, ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
			return &ssm.GetCommandInvocationOutput{
				Status:                ssmtypes.CommandInvocationStatusSuccess,
				StandardOutputContent: aws.String(strings.Repeat("x", runner.SSMOutputLimit-1)),
			}, nil
		}

		_, err := newRunner(time.Minute).Run(context.Background(), "c3srv-a", "nodes -d")

		Expect(err).NotTo(HaveOccurred())
	})

	It("fails when the command cannot be sent", func() {
		client.SendCommandFunc = func(context.Context, *ssm.SendCommandInput, ...func(*ssm.Options)) (*ssm.SendCommandOutput, error) {
			return nil, errors.New("InvalidInstanceId")
		}

		_, err := newRunner(time.Minute).Run(context.Background(), "c3srv-a", "ls -d")

		Expect(err).To(MatchError(ContainSubstring("InvalidInstanceId")))
	})

	It("cancels the remote command on timeout", func() {
		client.GetCommandInvocationFunc = func(context.Context, *ssm.GetCommandInvocationInput, ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
			return &ssm.GetCommandInvocationOutput{Status: ssmtypes.CommandInvocationStatusInProgress}, nil
		}

		_, err := newRunner(100*time.Millisecond).Run(context.Background(), "c3srv-a", "ls -d")

		var execErr *runner.ExecutionError
		Expect(errors.As(err, &execErr)).To(BeTrue())
		Expect(execErr.Timeout()).To(BeTrue())
		Expect(client.Cancelled()).To(ConsistOf("cmd-mock-12345"))
	})
})
