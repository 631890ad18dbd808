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
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/sshutil"
)

// sshDialTimeout bounds the TCP connect and SSH handshake.
const sshDialTimeout = 30 * time.Second

// SSHOptions describe how to reach the host the admin shell is installed on.
type SSHOptions struct {
	Host string
	// Port defaults to 22.
	Port int
	User string
	// PrivateKey is the path of the client authentication key.
	PrivateKey string
	// KnownHosts is the TOFU known_hosts file, see sshutil.
	KnownHosts string
}

// dialFunc matches net.Dialer.DialContext.
type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SSH runs the admin shell on a remote host. Every invocation opens its own
// connection so that clusters checked in parallel never share a session.
type SSH struct {
	log       *logger.FunLogger
	shellPath string
	timeout   time.Duration
	addr      string
	config    *ssh.ClientConfig
	dial      dialFunc
}

var _ Runner = (*SSH)(nil)

// NewSSH creates a runner using the admin shell found in shellPath on the
// host described by opts.
func NewSSH(log *logger.FunLogger, shellPath string, timeout time.Duration, opts SSHOptions) (*SSH, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("ssh host is required")
	}
	if opts.User == "" {
		return nil, fmt.Errorf("ssh user is required")
	}

	key, err := os.ReadFile(opts.PrivateKey) //nolint:gosec // path is from trusted config
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", opts.PrivateKey, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	port := opts.Port
	if port == 0 {
		port = 22
	}

	return &SSH{
		log:       log,
		shellPath: shellPath,
		timeout:   timeout,
		addr:      net.JoinHostPort(opts.Host, strconv.Itoa(port)),
		config: &ssh.ClientConfig{
			User:            opts.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: sshutil.TOFUHostKeyCallback(opts.KnownHosts),
			Timeout:         sshDialTimeout,
		},
		dial: (&net.Dialer{Timeout: sshDialTimeout}).DialContext,
	}, nil
}

type sshOutcome struct {
	out []byte
	err error
}

// Run implements Runner.
func (r *SSH) Run(ctx context.Context, cluster, command string) (Result, error) {
	cmdline := ShellCommand(r.shellPath, cluster, command)
	r.log.Debug("executing command on %s: %q", r.addr, cmdline)

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	execErr := &ExecutionError{Cluster: cluster, Command: cmdline, ExitStatus: -1}

	client, err := r.connect(ctx)
	if err != nil {
		execErr.Err = wrapContextErr(ctx, fmt.Errorf("failed to connect to %s: %w", r.addr, err))
		return Result{}, execErr
	}
	defer client.Close() //nolint:errcheck
	// Closing the client unblocks the session calls below.
	stopClose := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stopClose()

	session, err := client.NewSession()
	if err != nil {
		execErr.Err = wrapContextErr(ctx, fmt.Errorf("failed to create session: %w", err))
		return Result{}, execErr
	}
	defer session.Close() //nolint:errcheck

	done := make(chan sshOutcome, 1)
	go func() {
		out, err := session.CombinedOutput(cmdline)
		done <- sshOutcome{out: out, err: err}
	}()

	var outcome sshOutcome
	select {
	case outcome = <-done:
	case <-ctx.Done():
		execErr.Err = ctx.Err()
		return Result{}, execErr
	}

	result := Result{Output: string(outcome.out)}
	if outcome.err == nil {
		return result, nil
	}

	execErr.Output = result.Output
	var exitErr *ssh.ExitError
	switch {
	case ctx.Err() != nil:
		execErr.Err = ctx.Err()
	case errors.As(outcome.err, &exitErr):
		execErr.ExitStatus = exitErr.ExitStatus()
		result.ExitStatus = execErr.ExitStatus
	default:
		execErr.Err = outcome.err
	}
	return result, execErr
}

// connect dials the host and runs the SSH handshake. Both are bounded by ctx:
// a server that accepts the connection but never answers is abandoned when
// ctx ends.
func (r *SSH) connect(ctx context.Context) (*ssh.Client, error) {
	conn, err := r.dial(ctx, "tcp", r.addr)
	if err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	c, chans, reqs, err := ssh.NewClientConn(conn, r.addr, r.config)
	if !stop() {
		// ctx ended during the handshake and conn is closed.
		if err == nil {
			_ = c.Close()
		}
		return nil, ctx.Err()
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}
