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

// Package diagnostic turns the text printed by the Pegasus admin shell into
// typed records.
package diagnostic

import (
	"strings"
)

const (
	// DefaultStartMarker is the banner line printed by the admin shell right
	// before the answer to a command.
	DefaultStartMarker = "The cluster meta list is:"
	// DefaultEndMarker prefixes the trailer line printed when the shell exits.
	DefaultEndMarker = "dsn exit with code"
)

// Markers frame the payload inside the raw admin shell output.
type Markers struct {
	// Start is matched as a line prefix. The matching line is not part of
	// the payload.
	Start string
	// End is matched as a line prefix. The matching line and everything
	// after it are dropped.
	End string
}

// DefaultMarkers returns the markers printed by the Pegasus admin shell.
func DefaultMarkers() Markers {
	return Markers{Start: DefaultStartMarker, End: DefaultEndMarker}
}

// withDefaults fills empty markers with the admin shell defaults.
func (m Markers) withDefaults() Markers {
	if m.Start == "" {
		m.Start = DefaultStartMarker
	}
	if m.End == "" {
		m.End = DefaultEndMarker
	}
	return m
}

// Extract returns the lines of raw found between the start and the end
// marker, each terminated by a newline. When the start marker never shows
// up the payload is empty; when the end marker is missing everything after
// the start marker is kept. A repeated start marker line is skipped.
func Extract(raw string, markers Markers) string {
	markers = markers.withDefaults()

	var sb strings.Builder
	started := false

	for _, line := range splitLines(raw) {
		if strings.HasPrefix(line, markers.Start) {
			started = true
			continue
		}
		if strings.HasPrefix(line, markers.End) {
			break
		}
		if started {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// splitLines splits s on \n, dropping a trailing \r from every line and the
// empty element produced by a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
