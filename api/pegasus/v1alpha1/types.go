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

// Package v1alpha1 holds the CheckConfig API read by pegasus-check.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// GroupVersion is the apiVersion of every object in this package.
	GroupVersion = "pegasus.apache.org/v1alpha1"
	// KindCheckConfig is the kind of CheckConfig documents.
	KindCheckConfig = "CheckConfig"
)

// CheckConfig is the Schema for a pegasus-check configuration file.
type CheckConfig struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec CheckSpec `json:"spec"`
}

// CheckSpec defines how clusters are discovered and checked. Command line
// flags and environment variables override the matching fields.
type CheckSpec struct {
	// ConfigPath is the directory holding the pegasus-<cluster>.cfg files.
	// +optional
	ConfigPath string `json:"configPath,omitempty"`
	// ShellPath is the directory of the admin shell installation.
	// +optional
	ShellPath string `json:"shellPath,omitempty"`
	// Env restricts the check to clusters whose name starts with it.
	// +optional
	Env string `json:"env,omitempty"`

	// Timeout bounds each admin shell invocation. Defaults to 60s.
	// +optional
	Timeout *metav1.Duration `json:"timeout,omitempty"`
	// Parallel is the number of clusters checked at once. Defaults to 1.
	// +optional
	Parallel int `json:"parallel,omitempty"`
	// FailFast stops the run at the first cluster that cannot be checked.
	// +optional
	FailFast bool `json:"failFast,omitempty"`

	// +optional
	Markers Markers `json:"markers,omitempty"`
	// +optional
	Runner RunnerSpec `json:"runner,omitempty"`
}

// Markers frame the payload in admin shell output.
type Markers struct {
	// Start is the prefix of the line preceding the payload.
	// +optional
	Start string `json:"start,omitempty"`
	// End is the prefix of the line following the payload.
	// +optional
	End string `json:"end,omitempty"`
}

type RunnerType string

const (
	// RunnerLocal runs the admin shell installed on this host.
	RunnerLocal RunnerType = "local"
	// RunnerSSH runs the admin shell on a remote host over SSH.
	RunnerSSH RunnerType = "ssh"
	// RunnerSSM runs the admin shell on an EC2 instance through AWS
	// Systems Manager.
	RunnerSSM RunnerType = "ssm"
)

// RunnerSpec selects where the admin shell runs.
type RunnerSpec struct {
	// +kubebuilder:validation:Enum=local;ssh;ssm
	// +optional
	Type RunnerType `json:"type,omitempty"`
	// SSH is required when Type is ssh.
	// +optional
	SSH *SSHRunner `json:"ssh,omitempty"`
	// SSM is required when Type is ssm.
	// +optional
	SSM *SSMRunner `json:"ssm,omitempty"`
}

type SSHRunner struct {
	Host string `json:"host"`
	// +optional
	Port int    `json:"port,omitempty"`
	User string `json:"user"`
	// Path to the private key file on the local machine
	PrivateKey string `json:"privateKey"`
	// KnownHosts is the trust-on-first-use known_hosts file.
	// +optional
	KnownHosts string `json:"knownHosts,omitempty"`
}

type SSMRunner struct {
	// +optional
	Region     string `json:"region,omitempty"`
	InstanceID string `json:"instanceId"`
}
