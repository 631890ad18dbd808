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

package checker

import (
	"fmt"
	"io"
	"strings"

	"github.com/pegasus-kv/pegasus-check/pkg/output"
)

// Cluster statuses shown in table reports.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusFailed    = "failed"
)

var (
	_ output.TextData  = FleetReport{}
	_ output.TableData = FleetReport{}
)

// Status summarizes the report in one word.
func (r ClusterReport) Status() string {
	switch {
	case r.Err != nil:
		return StatusFailed
	case len(r.Findings) > 0:
		return StatusUnhealthy
	default:
		return StatusHealthy
	}
}

// WriteText writes the report delimited per cluster by "=== <name>" and
// "===" lines.
func (f FleetReport) WriteText(w io.Writer, styles output.Styles) error {
	ew := &errWriter{w: w}
	if f.Env != "" {
		ew.println("env = " + f.Env)
	}
	for _, r := range f.Clusters {
		ew.println(styles.Heading.Render("=== " + r.Cluster))
		for _, finding := range r.Findings {
			ew.println(styles.Warning.Render(finding.Message))
			if finding.Detail != "" {
				ew.println(finding.Detail)
			}
		}
		switch {
		case r.Err != nil:
			for _, line := range strings.Split(r.Err.Error(), "\n") {
				ew.println(styles.Error.Render(line))
			}
		case len(r.Findings) == 0:
			ew.println(styles.OK.Render("cluster is healthy"))
		}
		ew.println(styles.Heading.Render("==="))
	}
	if len(f.Skipped) > 0 {
		ew.println(styles.Muted.Render("not checked: " + strings.Join(f.Skipped, ", ")))
	}
	return ew.err
}

// Headers implements output.TableData.
func (f FleetReport) Headers() []string {
	return []string{"Cluster", "Status", "Findings", "Error"}
}

// Rows implements output.TableData.
func (f FleetReport) Rows() [][]string {
	rows := make([][]string, 0, len(f.Clusters)+len(f.Skipped))
	for _, r := range f.Clusters {
		kinds := make([]string, 0, len(r.Findings))
		for _, finding := range r.Findings {
			kinds = append(kinds, string(finding.Kind))
		}
		rows = append(rows, []string{r.Cluster, r.Status(), strings.Join(kinds, ", "), r.Error})
	}
	for _, name := range f.Skipped {
		rows = append(rows, []string{name, "skipped", "", ""})
	}
	return rows
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
