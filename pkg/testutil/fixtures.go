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

package testutil

import (
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/pegasus-kv/pegasus-check/api/pegasus/v1alpha1"
)

// shellBanner is what the admin shell prints before answering a command.
const shellBanner = `Pegasus Shell 2.4.0 (3a1e8d4) Release
Type "help" for more information.
Type "Ctrl-D" or "Ctrl-C" to exit the shell.

The cluster name is: %s
`

// shellTrailer is what the admin shell prints when stdin is exhausted.
const shellTrailer = `
dsn exit with code 0
`

// LsDetailOutput returns raw `ls -d` output with the given unhealthy
// counters, wrapped in the admin shell banner and trailer.
func LsDetailOutput(cluster string, writeUnhealthy, readUnhealthy int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, shellBanner, cluster)
	sb.WriteString(`The cluster meta list is:
[general_info]
app_id  status     app_name  app_type  partition_count  replica_count  is_stateful  create_time          drop_time  drop_expire  envs_count
1       AVAILABLE  temp      pegasus   8                3              true         2024-01-01_00:00:00  -          -            0
2       AVAILABLE  stat      pegasus   4                3              true         2024-01-01_00:00:00  -          -            0

[summary]
total_app_count            : 2
fully_healthy_app_count    : 2
unhealthy_app_count        : 0
`)
	fmt.Fprintf(&sb, "write_unhealthy_app_count  : %d\n", writeUnhealthy)
	fmt.Fprintf(&sb, "read_unhealthy_app_count   : %d\n", readUnhealthy)
	sb.WriteString(shellTrailer)
	return sb.String()
}

// NodesDetailPayload returns the `nodes -d` table for replica servers
// hosting the given primary counts, without banner or trailer.
func NodesDetailPayload(primaries ...int) string {
	var sb strings.Builder
	sb.WriteString("[details]\n")
	sb.WriteString("address              status  replica_count  primary_count  secondary_count\n")
	for i, p := range primaries {
		fmt.Fprintf(&sb, "10.0.0.%d:34801       ALIVE   %-13d  %-13d  %d\n", i+1, 3*p, p, 2*p)
	}
	sb.WriteString("\n[summary]\n")
	fmt.Fprintf(&sb, "total_node_count    : %d\n", len(primaries))
	fmt.Fprintf(&sb, "alive_node_count    : %d\n", len(primaries))
	sb.WriteString("unalive_node_count  : 0\n")
	return sb.String()
}

// NodesDetailOutput returns raw `nodes -d` output for the given primary
// counts, wrapped in the admin shell banner and trailer.
func NodesDetailOutput(cluster string, primaries ...int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, shellBanner, cluster)
	sb.WriteString("The cluster meta list is:\n")
	sb.WriteString(NodesDetailPayload(primaries...))
	sb.WriteString(shellTrailer)
	return sb.String()
}

// ValidCheckConfig returns a minimal valid CheckConfig using the local
// runner.
func ValidCheckConfig() *v1alpha1.CheckConfig {
	return &v1alpha1.CheckConfig{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.GroupVersion,
			Kind:       v1alpha1.KindCheckConfig,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: "test-fleet",
		},
		Spec: v1alpha1.CheckSpec{
			Timeout:  &metav1.Duration{Duration: 30 * time.Second},
			Parallel: 1,
			Runner: v1alpha1.RunnerSpec{
				Type: v1alpha1.RunnerLocal,
			},
		},
	}
}

// ValidSSHCheckConfig returns a CheckConfig running the admin shell on a
// jump host over SSH.
func ValidSSHCheckConfig() *v1alpha1.CheckConfig {
	cfg := ValidCheckConfig()
	cfg.Spec.Runner = v1alpha1.RunnerSpec{
		Type: v1alpha1.RunnerSSH,
		SSH: &v1alpha1.SSHRunner{
			Host:       "jump.example.com",
			Port:       22,
			User:       "pegasus",
			PrivateKey: "/path/to/id_ed25519",
		},
	}
	return cfg
}

// ValidSSMCheckConfig returns a CheckConfig running the admin shell on an
// EC2 instance through AWS Systems Manager.
func ValidSSMCheckConfig() *v1alpha1.CheckConfig {
	cfg := ValidCheckConfig()
	cfg.Spec.Runner = v1alpha1.RunnerSpec{
		Type: v1alpha1.RunnerSSM,
		SSM: &v1alpha1.SSMRunner{
			Region:     "us-west-2",
			InstanceID: "i-0123456789abcdef0",
		},
	}
	return cfg
}
