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

// Package checker runs the health evaluation over a fleet of clusters and
// collects one report per cluster.
package checker

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/health"
	"github.com/pegasus-kv/pegasus-check/pkg/registry"
)

// ClusterEvaluator evaluates a single cluster. *health.Evaluator satisfies
// it.
type ClusterEvaluator interface {
	Evaluate(ctx context.Context, cluster string) ([]health.Finding, error)
}

var _ ClusterEvaluator = (*health.Evaluator)(nil)

// ClusterReport is the outcome of evaluating one cluster.
type ClusterReport struct {
	Cluster  string           `json:"cluster" yaml:"cluster"`
	Findings []health.Finding `json:"findings" yaml:"findings"`
	// Error is the rendered Err, for serialized reports.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Err   error  `json:"-" yaml:"-"`
}

// Healthy reports whether the cluster was evaluated without error and
// without findings.
func (r ClusterReport) Healthy() bool {
	return r.Err == nil && len(r.Findings) == 0
}

// FleetReport gathers the reports of one run in registry order.
type FleetReport struct {
	Env      string          `json:"env,omitempty" yaml:"env,omitempty"`
	Clusters []ClusterReport `json:"clusters" yaml:"clusters"`
	// Skipped lists clusters that were never evaluated because the run
	// stopped early.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Failed returns the reports of clusters whose evaluation failed.
func (f FleetReport) Failed() []ClusterReport {
	var failed []ClusterReport
	for _, r := range f.Clusters {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Healthy reports whether every cluster was evaluated and found healthy.
func (f FleetReport) Healthy() bool {
	if len(f.Skipped) > 0 {
		return false
	}
	for _, r := range f.Clusters {
		if !r.Healthy() {
			return false
		}
	}
	return true
}

// Checker evaluates clusters with bounded concurrency.
type Checker struct {
	Log       *logger.FunLogger
	Evaluator ClusterEvaluator
	// Concurrency bounds parallel evaluations, values below 1 mean one.
	Concurrency int
	// FailFast stops scheduling clusters after the first failure.
	FailFast bool
}

// Run evaluates clusters and returns their reports in the given order. A
// failing cluster never cancels the evaluation of another one.
func (c *Checker) Run(ctx context.Context, clusters []registry.Cluster) FleetReport {
	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}

	reports := make([]ClusterReport, len(clusters))
	evaluated := make([]bool, len(clusters))
	var failed atomic.Bool

	var g errgroup.Group
	g.SetLimit(limit)
	for i, cluster := range clusters {
		if ctx.Err() != nil || (c.FailFast && failed.Load()) {
			break
		}
		g.Go(func() error {
			if c.FailFast && failed.Load() {
				return nil
			}
			c.Log.Debug("evaluating cluster %s", cluster.Name)
			findings, err := c.Evaluator.Evaluate(ctx, cluster.Name)
			report := ClusterReport{Cluster: cluster.Name, Findings: findings, Err: err}
			if err != nil {
				report.Error = err.Error()
				failed.Store(true)
			}
			reports[i] = report
			evaluated[i] = true
			return nil
		})
	}
	_ = g.Wait()

	var fleet FleetReport
	for i, cluster := range clusters {
		if evaluated[i] {
			fleet.Clusters = append(fleet.Clusters, reports[i])
		} else {
			fleet.Skipped = append(fleet.Skipped, cluster.Name)
		}
	}
	if len(fleet.Skipped) > 0 {
		c.Log.Warning("stopped early, %d cluster(s) not checked", len(fleet.Skipped))
	}
	return fleet
}
