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

package common

import (
	"context"
	"fmt"
	"time"

	"github.com/pegasus-kv/pegasus-check/api/pegasus/v1alpha1"
	internalaws "github.com/pegasus-kv/pegasus-check/internal/aws"
	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/runner"
)

// NewRunner builds the runner selected by spec.Runner. The admin shell is
// looked up in spec.ShellPath on whichever host the runner targets.
func NewRunner(ctx context.Context, log *logger.FunLogger, spec *v1alpha1.CheckSpec) (runner.Runner, error) {
	shellPath, err := RequireShellPath(spec)
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if spec.Timeout != nil {
		timeout = spec.Timeout.Duration
	}

	switch spec.Runner.Type {
	case "", v1alpha1.RunnerLocal:
		return runner.NewLocal(log, shellPath, timeout), nil
	case v1alpha1.RunnerSSH:
		if spec.Runner.SSH == nil {
			return nil, fmt.Errorf("ssh settings are required for the ssh runner")
		}
		s := spec.Runner.SSH
		r, err := runner.NewSSH(log, shellPath, timeout, runner.SSHOptions{
			Host:       s.Host,
			Port:       s.Port,
			User:       s.User,
			PrivateKey: s.PrivateKey,
			KnownHosts: s.KnownHosts,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case v1alpha1.RunnerSSM:
		if spec.Runner.SSM == nil {
			return nil, fmt.Errorf("ssm settings are required for the ssm runner")
		}
		client, err := internalaws.NewSSMClient(ctx, spec.Runner.SSM.Region)
		if err != nil {
			return nil, err
		}
		r, err := runner.NewSSM(log, client, shellPath, timeout, spec.Runner.SSM.InstanceID)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown runner type %q", spec.Runner.Type)
	}
}
