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

package v1alpha1

import (
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	DefaultTimeout  = 60 * time.Second
	DefaultParallel = 1
	// MaxParallel bounds Parallel, each check holds an admin shell session.
	MaxParallel = 64
)

// Default fills unset fields with their default values.
func (c *CheckConfig) Default() {
	if c.APIVersion == "" {
		c.APIVersion = GroupVersion
	}
	if c.Kind == "" {
		c.Kind = KindCheckConfig
	}
	if c.Spec.Timeout == nil {
		c.Spec.Timeout = &metav1.Duration{Duration: DefaultTimeout}
	}
	if c.Spec.Parallel == 0 {
		c.Spec.Parallel = DefaultParallel
	}
	if c.Spec.Runner.Type == "" {
		c.Spec.Runner.Type = RunnerLocal
	}
	if c.Spec.Runner.SSH != nil && c.Spec.Runner.SSH.Port == 0 {
		c.Spec.Runner.SSH.Port = 22
	}
}

// Validate validates the CheckConfig.
func (c *CheckConfig) Validate() error {
	if c.APIVersion != GroupVersion {
		return fmt.Errorf("unsupported apiVersion %q, expected %q", c.APIVersion, GroupVersion)
	}
	if c.Kind != KindCheckConfig {
		return fmt.Errorf("unsupported kind %q, expected %q", c.Kind, KindCheckConfig)
	}
	if err := c.Spec.Validate(); err != nil {
		return fmt.Errorf("spec validation failed: %w", err)
	}
	return nil
}

// Validate validates the CheckSpec.
func (s *CheckSpec) Validate() error {
	if s.Timeout != nil && s.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout.Duration)
	}
	if s.Parallel < 0 || s.Parallel > MaxParallel {
		return fmt.Errorf("parallel must be between 1 and %d, got %d", MaxParallel, s.Parallel)
	}
	if s.FailFast && s.Parallel > 1 {
		return fmt.Errorf("failFast requires sequential checks, got parallel %d", s.Parallel)
	}
	if strings.ContainsAny(s.Env, "/\\") {
		return fmt.Errorf("env %q must not contain path separators", s.Env)
	}
	if s.Markers.Start != "" && s.Markers.Start == s.Markers.End {
		return fmt.Errorf("start and end markers must differ")
	}
	if err := s.Runner.Validate(); err != nil {
		return fmt.Errorf("runner validation failed: %w", err)
	}
	return nil
}

// Validate validates the RunnerSpec.
func (r *RunnerSpec) Validate() error {
	switch r.Type {
	case "", RunnerLocal:
		if r.SSH != nil || r.SSM != nil {
			return fmt.Errorf("local runner does not take ssh or ssm settings")
		}
	case RunnerSSH:
		if r.SSH == nil {
			return fmt.Errorf("ssh settings are required for the ssh runner")
		}
		return r.SSH.Validate()
	case RunnerSSM:
		if r.SSM == nil {
			return fmt.Errorf("ssm settings are required for the ssm runner")
		}
		return r.SSM.Validate()
	default:
		return fmt.Errorf("unknown runner type %q, must be one of local, ssh, ssm", r.Type)
	}
	return nil
}

// Validate validates the SSHRunner.
func (s *SSHRunner) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("ssh host is required")
	}
	if s.User == "" {
		return fmt.Errorf("ssh user is required")
	}
	if s.PrivateKey == "" {
		return fmt.Errorf("ssh privateKey is required")
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("ssh port %d is out of range", s.Port)
	}
	return nil
}

// Validate validates the SSMRunner.
func (s *SSMRunner) Validate() error {
	if !strings.HasPrefix(s.InstanceID, "i-") && !strings.HasPrefix(s.InstanceID, "mi-") {
		return fmt.Errorf("ssm instanceId %q is not an EC2 or managed instance id", s.InstanceID)
	}
	return nil
}
