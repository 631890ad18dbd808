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

package health

import "fmt"

// InsufficientDataError is returned by the imbalance rule when the node list
// holds no replica server row.
type InsufficientDataError struct {
	Cluster string
}

func (e *InsufficientDataError) Error() string {
	if e.Cluster == "" {
		return "no replica server found in node list, cannot evaluate balance"
	}
	return fmt.Sprintf("no replica server found in node list of cluster %s, cannot evaluate balance", e.Cluster)
}

// Stage names the evaluation step that failed.
type Stage string

const (
	StageNodes      Stage = "nodes"
	StagePartitions Stage = "partitions"
)

// ClusterError ties an evaluation failure to the cluster and stage it
// happened in. Err is a *runner.ExecutionError, a *diagnostic.ParseError or
// an *InsufficientDataError.
type ClusterError struct {
	Cluster string
	Stage   Stage
	// Payload is the extracted admin shell output the stage worked on, if
	// the command ran.
	Payload string
	Err     error
}

func (e *ClusterError) Error() string {
	return fmt.Sprintf("cluster %s: %s check failed: %v", e.Cluster, e.Stage, e.Err)
}

func (e *ClusterError) Unwrap() error {
	return e.Err
}
