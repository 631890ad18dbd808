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
	"os/exec"
	"time"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
)

// waitDelay bounds how long we keep reading output after the shell was
// killed, in case run.sh left children holding the pipe.
const waitDelay = 2 * time.Second

// Local runs the admin shell installed on this machine.
type Local struct {
	log       *logger.FunLogger
	shellPath string
	timeout   time.Duration
	// Shell interprets the command line, defaults to bash.
	Shell string
}

var _ Runner = (*Local)(nil)

// NewLocal creates a runner using the admin shell found in shellPath.
func NewLocal(log *logger.FunLogger, shellPath string, timeout time.Duration) *Local {
	return &Local{
		log:       log,
		shellPath: shellPath,
		timeout:   timeout,
		Shell:     "bash",
	}
}

// Run implements Runner.
func (r *Local) Run(ctx context.Context, cluster, command string) (Result, error) {
	cmdline := ShellCommand(r.shellPath, cluster, command)
	r.log.Debug("executing command: %q", cmdline)

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Shell, "-c", cmdline) //nolint:gosec // arguments are shell quoted
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()

	result := Result{Output: string(out)}
	if err == nil {
		return result, nil
	}

	execErr := &ExecutionError{
		Cluster:    cluster,
		Command:    cmdline,
		Output:     result.Output,
		ExitStatus: -1,
	}
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		execErr.Err = ctx.Err()
	case errors.As(err, &exitErr):
		execErr.ExitStatus = exitErr.ExitCode()
		result.ExitStatus = execErr.ExitStatus
	default:
		execErr.Err = err
	}
	return result, execErr
}
