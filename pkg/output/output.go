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

// Package output renders command results as text, tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatText outputs a human readable report
	FormatText Format = "text"
	// FormatTable outputs data as a formatted table
	FormatTable Format = "table"
	// FormatJSON outputs data as JSON
	FormatJSON Format = "json"
	// FormatYAML outputs data as YAML
	FormatYAML Format = "yaml"
)

// ValidFormats returns all valid output formats
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatTable), string(FormatJSON), string(FormatYAML)}
}

// IsValidFormat checks if the given format string is valid
func IsValidFormat(format string) bool {
	switch Format(format) {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Formatter handles output formatting for CLI commands
type Formatter struct {
	format Format
	writer io.Writer
	styles Styles
}

// NewFormatter creates a new formatter with the specified format. An empty
// format selects defaultFormat.
func NewFormatter(format string, defaultFormat Format) (*Formatter, error) {
	if format == "" {
		format = string(defaultFormat)
	}
	if !IsValidFormat(format) {
		return nil, fmt.Errorf("invalid output format %q, must be one of: %v", format, ValidFormats())
	}
	f := &Formatter{format: Format(format)}
	f.SetWriter(os.Stdout)
	return f, nil
}

// SetWriter sets the output writer. Colors are enabled only when w is a
// terminal that supports them.
func (f *Formatter) SetWriter(w io.Writer) {
	f.writer = w
	f.styles = NewStyles(lipgloss.NewRenderer(w))
}

// Format returns the current format
func (f *Formatter) Format() Format {
	return f.format
}

// Styles returns the styles matching the current writer.
func (f *Formatter) Styles() Styles {
	return f.styles
}

// PrintJSON outputs data as JSON
func (f *Formatter) PrintJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintYAML outputs data as YAML
func (f *Formatter) PrintYAML(data any) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	defer encoder.Close() //nolint:errcheck
	return encoder.Encode(data)
}

// TableData interface for types that can be rendered as tables
type TableData interface {
	// Headers returns the column headers for the table
	Headers() []string
	// Rows returns the data rows for the table
	Rows() [][]string
}

// TextData is implemented by types with a human readable report.
type TextData interface {
	WriteText(w io.Writer, styles Styles) error
}

// Print outputs data in the configured format. Text falls back to a table
// for types without a text report.
func (f *Formatter) Print(data any) error {
	switch f.format {
	case FormatJSON:
		return f.PrintJSON(data)
	case FormatYAML:
		return f.PrintYAML(data)
	case FormatText:
		if td, ok := data.(TextData); ok {
			return td.WriteText(f.writer, f.styles)
		}
		fallthrough
	case FormatTable:
		if td, ok := data.(TableData); ok {
			return f.PrintTable(td)
		}
		return fmt.Errorf("%T cannot be rendered as %s", data, f.format)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintTable outputs TableData as a formatted table
func (f *Formatter) PrintTable(data TableData) error {
	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(data.Headers())
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetBorders(tablewriter.Border{Left: true, Right: true, Top: false, Bottom: false})
	table.AppendBulk(data.Rows())
	table.Render()
	return nil
}
