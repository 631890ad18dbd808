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

import (
	"context"
	"errors"
	"strings"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/diagnostic"
	"github.com/pegasus-kv/pegasus-check/pkg/runner"
)

// Admin shell commands sent by the evaluator.
const (
	CommandListNodes = "nodes -d"
	CommandListApps  = "ls -d"
)

// Evaluator runs the diagnostic commands against one cluster and applies
// the health rules to their output.
type Evaluator struct {
	log     *logger.FunLogger
	runner  runner.Runner
	markers diagnostic.Markers
}

// NewEvaluator creates an evaluator sending commands through r.
func NewEvaluator(log *logger.FunLogger, r runner.Runner, markers diagnostic.Markers) *Evaluator {
	return &Evaluator{
		log:     log,
		runner:  r,
		markers: markers,
	}
}

// Evaluate checks balance then partition health of cluster. The first
// failure aborts the evaluation; findings gathered before it are returned
// along with a *ClusterError.
func (e *Evaluator) Evaluate(ctx context.Context, cluster string) ([]Finding, error) {
	var findings []Finding

	finding, err := e.checkBalance(ctx, cluster)
	if err != nil {
		return findings, err
	}
	if finding != nil {
		findings = append(findings, *finding)
	}

	finding, err = e.checkPartitions(ctx, cluster)
	if err != nil {
		return findings, err
	}
	if finding != nil {
		findings = append(findings, *finding)
	}

	return findings, nil
}

func (e *Evaluator) checkBalance(ctx context.Context, cluster string) (*Finding, error) {
	payload, err := e.query(ctx, cluster, CommandListNodes)
	if err != nil {
		return nil, &ClusterError{Cluster: cluster, Stage: StageNodes, Err: err}
	}

	records, err := diagnostic.ParseNodeList(payload)
	if err != nil {
		return nil, &ClusterError{Cluster: cluster, Stage: StageNodes, Payload: payload, Err: err}
	}
	e.log.Debug("cluster %s: found %d replica servers", cluster, len(records))

	finding, err := EvaluateBalance(diagnostic.PrimaryCounts(records), strings.TrimSpace(payload))
	if err != nil {
		var insufficient *InsufficientDataError
		if errors.As(err, &insufficient) {
			insufficient.Cluster = cluster
		}
		return nil, &ClusterError{Cluster: cluster, Stage: StageNodes, Payload: payload, Err: err}
	}
	return finding, nil
}

func (e *Evaluator) checkPartitions(ctx context.Context, cluster string) (*Finding, error) {
	payload, err := e.query(ctx, cluster, CommandListApps)
	if err != nil {
		return nil, &ClusterError{Cluster: cluster, Stage: StagePartitions, Err: err}
	}

	summary, err := diagnostic.ParsePartitionSummary(payload)
	if err != nil {
		return nil, &ClusterError{Cluster: cluster, Stage: StagePartitions, Payload: payload, Err: err}
	}
	e.log.Debug("cluster %s: write_unhealthy_app_count=%d read_unhealthy_app_count=%d",
		cluster, summary.WriteUnhealthyApps, summary.ReadUnhealthyApps)

	return EvaluatePartitions(summary), nil
}

// query runs command and returns the payload framed by the shell markers.
func (e *Evaluator) query(ctx context.Context, cluster, command string) (string, error) {
	result, err := e.runner.Run(ctx, cluster, command)
	if err != nil {
		return "", err
	}
	e.log.Trace("raw output of %q on cluster %s:\n%s", command, cluster, result.Output)
	return diagnostic.Extract(result.Output, e.markers), nil
}
