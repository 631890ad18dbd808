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

package diagnostic

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ReadUnhealthyAppCountLabel starts the `ls -d` summary line holding the
	// number of tables with partitions that cannot serve reads.
	ReadUnhealthyAppCountLabel = "read_unhealthy_app_count"
	// WriteUnhealthyAppCountLabel starts the `ls -d` summary line holding the
	// number of tables with partitions that cannot serve writes.
	WriteUnhealthyAppCountLabel = "write_unhealthy_app_count"
)

// Expected schema of the `nodes -d` table. Columns are zero based and
// whitespace separated:
//
//	address  status  replica_count  primary_count  secondary_count
const (
	NodeAddressColumn   = 0
	NodeStatusColumn    = 1
	NodePrimaryColumn   = 3
	NodeSecondaryColumn = 4
	// NodeMinColumns is the number of columns a row needs to be considered
	// a node row. Shorter rows are section titles or summary lines.
	NodeMinColumns = 5
)

// PartitionSummary holds the unhealthy table counters reported by `ls -d`.
type PartitionSummary struct {
	ReadUnhealthyApps  int `json:"readUnhealthyAppCount" yaml:"readUnhealthyAppCount"`
	WriteUnhealthyApps int `json:"writeUnhealthyAppCount" yaml:"writeUnhealthyAppCount"`
}

// NodeRecord is one replica server row of the `nodes -d` table.
type NodeRecord struct {
	Address        string `json:"address" yaml:"address"`
	Status         string `json:"status" yaml:"status"`
	PrimaryCount   int    `json:"primaryCount" yaml:"primaryCount"`
	SecondaryCount int    `json:"secondaryCount" yaml:"secondaryCount"`
}

// ParsePartitionSummary reads the read and write unhealthy app counters out
// of an `ls -d` payload. Only the first line carrying each label is used.
func ParsePartitionSummary(payload string) (PartitionSummary, error) {
	var (
		summary               PartitionSummary
		foundRead, foundWrite bool
		err                   error
	)

	for _, line := range splitLines(strings.TrimSpace(payload)) {
		switch {
		case !foundRead && strings.HasPrefix(line, ReadUnhealthyAppCountLabel):
			if summary.ReadUnhealthyApps, err = labeledCount(ReadUnhealthyAppCountLabel, line); err != nil {
				return PartitionSummary{}, err
			}
			foundRead = true
		case !foundWrite && strings.HasPrefix(line, WriteUnhealthyAppCountLabel):
			if summary.WriteUnhealthyApps, err = labeledCount(WriteUnhealthyAppCountLabel, line); err != nil {
				return PartitionSummary{}, err
			}
			foundWrite = true
		}
	}

	if !foundWrite {
		return PartitionSummary{}, &ParseError{Field: WriteUnhealthyAppCountLabel, Reason: "label not found"}
	}
	if !foundRead {
		return PartitionSummary{}, &ParseError{Field: ReadUnhealthyAppCountLabel, Reason: "label not found"}
	}

	return summary, nil
}

// labeledCount parses the count following the first colon of a
// "label : value" line.
func labeledCount(label, line string) (int, error) {
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return 0, &ParseError{Field: label, Line: line, Reason: "missing ':' separator"}
	}
	return parseCount(label, line, parts[1])
}

// ParseNodeList reads the `nodes -d` table. The first line is a header and
// is skipped, as is every row with fewer than NodeMinColumns columns or a
// non-numeric secondary count. Records keep table order.
func ParseNodeList(payload string) ([]NodeRecord, error) {
	lines := splitLines(strings.TrimSpace(payload))
	if len(lines) == 0 {
		return nil, nil
	}

	var records []NodeRecord
	for _, line := range lines[1:] {
		columns := strings.Fields(line)
		if len(columns) < NodeMinColumns || !isDigits(columns[NodeSecondaryColumn]) {
			continue
		}

		primary, err := parseCount("primary_count", line, columns[NodePrimaryColumn])
		if err != nil {
			return nil, err
		}
		secondary, err := strconv.Atoi(columns[NodeSecondaryColumn])
		if err != nil {
			return nil, &ParseError{Field: "secondary_count", Line: line, Reason: "value out of range", Err: err}
		}

		records = append(records, NodeRecord{
			Address:        columns[NodeAddressColumn],
			Status:         columns[NodeStatusColumn],
			PrimaryCount:   primary,
			SecondaryCount: secondary,
		})
	}

	return records, nil
}

// PrimaryCounts returns the primary replica count of every record, in order.
func PrimaryCounts(records []NodeRecord) []int {
	counts := make([]int, 0, len(records))
	for _, r := range records {
		counts = append(counts, r.PrimaryCount)
	}
	return counts
}

func parseCount(field, line, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Field: field, Line: line, Reason: fmt.Sprintf("%q is not an integer", strings.TrimSpace(value)), Err: err}
	}
	if n < 0 {
		return 0, &ParseError{Field: field, Line: line, Reason: fmt.Sprintf("negative count %d", n)}
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
