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

// Package runner executes Pegasus admin shell commands, either locally or on
// a remote host reached over SSH or AWS Systems Manager.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single admin shell invocation.
const DefaultTimeout = 60 * time.Second

// Result is the outcome of a successful admin shell invocation.
type Result struct {
	ExitStatus int
	// Output is stdout and stderr combined.
	Output string
}

// Runner executes one admin shell command against a cluster and waits for
// it to complete.
type Runner interface {
	Run(ctx context.Context, cluster, command string) (Result, error)
}

// ExecutionError is returned when the admin shell could not be run, exited
// with a non-zero status or did not finish in time.
type ExecutionError struct {
	Cluster string
	// Command is the full command line that was executed.
	Command string
	// Output is whatever the shell printed before failing.
	Output     string
	ExitStatus int
	// Err is the transport or context error, nil for a plain non-zero exit.
	Err error
}

func (e *ExecutionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "failed to execute %q", e.Command)
	switch {
	case e.Timeout():
		sb.WriteString(": timed out")
	case e.Err != nil:
		fmt.Fprintf(&sb, ": %v", e.Err)
	default:
		fmt.Fprintf(&sb, ": exit status %d", e.ExitStatus)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&sb, ": %s", out)
	}
	return sb.String()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the invocation was aborted by its deadline.
func (e *ExecutionError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ShellCommand builds the command line feeding command to the admin shell
// of cluster, run from the shell installation directory. A leading "~" in
// shellPath is left for the target host's shell to expand.
func ShellCommand(shellPath, cluster, command string) string {
	return fmt.Sprintf("cd %s; echo %s | ./run.sh shell -n %s",
		quotePath(shellPath), shellQuote(command), shellQuote(cluster))
}

// quotePath quotes path like shellQuote but keeps a leading "~" or "~/"
// outside the quotes.
func quotePath(path string) string {
	switch {
	case path == "~":
		return path
	case strings.HasPrefix(path, "~/"):
		return "~/" + shellQuote(path[2:])
	default:
		return shellQuote(path)
	}
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// withTimeout derives a context bounded by timeout, or by DefaultTimeout
// when timeout is not positive.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
