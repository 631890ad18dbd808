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

package output

import "github.com/charmbracelet/lipgloss"

var (
	colorSuccess = lipgloss.Color("#04B575")
	colorWarning = lipgloss.Color("#FFB454")
	colorError   = lipgloss.Color("#FF6B6B")
	colorMuted   = lipgloss.Color("#7D7D7D")
)

// Styles colors report elements. Rendering with a renderer whose output is
// not a terminal leaves text untouched.
type Styles struct {
	Heading lipgloss.Style
	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds the report styles for renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Heading: r.NewStyle().Bold(true),
		OK:      r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
	}
}
