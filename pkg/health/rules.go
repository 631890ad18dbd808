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

// Package health evaluates the replication and balance rules of a Pegasus
// cluster from its parsed diagnostics.
package health

import (
	"fmt"
	"sort"

	"github.com/pegasus-kv/pegasus-check/pkg/diagnostic"
)

// ImbalanceThreshold is the smallest acceptable ratio between the least and
// the most loaded replica server, measured in primary replicas.
const ImbalanceThreshold = 0.8

// Kind identifies the rule that produced a finding.
type Kind string

const (
	// KindWriteUnhealthy means some tables have partitions that cannot
	// serve writes.
	KindWriteUnhealthy Kind = "write-unhealthy"
	// KindReadUnhealthy means some tables have partitions that cannot
	// serve reads.
	KindReadUnhealthy Kind = "read-unhealthy"
	// KindImbalanced means primary replicas are unevenly spread across
	// replica servers.
	KindImbalanced Kind = "imbalanced"
)

// Finding is a single reportable health condition of a cluster.
type Finding struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	// Count is the unhealthy app count for partition findings.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`
	// Ratio is min/max primary count for balance findings.
	Ratio float64 `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	// Detail is the raw `nodes -d` table for balance findings.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// EvaluatePartitions applies the partition health rule. A write unhealthy
// cluster is reported as such and the read counter is not looked at.
func EvaluatePartitions(summary diagnostic.PartitionSummary) *Finding {
	if summary.WriteUnhealthyApps > 0 {
		return &Finding{
			Kind:    KindWriteUnhealthy,
			Count:   summary.WriteUnhealthyApps,
			Message: fmt.Sprintf("cluster is write unhealthy, write_unhealthy_app_count = %d", summary.WriteUnhealthyApps),
		}
	}
	if summary.ReadUnhealthyApps > 0 {
		return &Finding{
			Kind:    KindReadUnhealthy,
			Count:   summary.ReadUnhealthyApps,
			Message: fmt.Sprintf("cluster is read unhealthy, read_unhealthy_app_count = %d", summary.ReadUnhealthyApps),
		}
	}
	return nil
}

// BalanceRatio returns min(counts)/max(counts). It fails with
// *InsufficientDataError when counts is empty. A cluster with no primary
// replica at all is reported as balanced.
func BalanceRatio(counts []int) (float64, error) {
	if len(counts) == 0 {
		return 0, &InsufficientDataError{}
	}

	sorted := append([]int(nil), counts...)
	sort.Ints(sorted)

	lowest, highest := sorted[0], sorted[len(sorted)-1]
	if highest == 0 {
		return 1, nil
	}
	return float64(lowest) / float64(highest), nil
}

// EvaluateBalance applies the imbalance rule to the primary replica count of
// every replica server. The finding carries nodesTable so operators can see
// which servers are skewed.
func EvaluateBalance(counts []int, nodesTable string) (*Finding, error) {
	ratio, err := BalanceRatio(counts)
	if err != nil {
		return nil, err
	}
	if ratio >= ImbalanceThreshold {
		return nil, nil
	}
	return &Finding{
		Kind:    KindImbalanced,
		Ratio:   ratio,
		Message: fmt.Sprintf("cluster is imbalanced, min/max primary replica ratio = %.2f (< %.2f)", ratio, ImbalanceThreshold),
		Detail:  nodesTable,
	}, nil
}
