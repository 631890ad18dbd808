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

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// fdWriter is the subset of file.File that implements io.Writer and Fd()
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// Verbosity represents the logging verbosity level.
type Verbosity int

const (
	// VerbosityQuiet suppresses all output except warnings and errors.
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal is the default verbosity level.
	VerbosityNormal
	// VerbosityVerbose enables debug output, including the admin shell
	// command lines being executed.
	VerbosityVerbose
	// VerbosityDebug enables trace output (raw admin shell output).
	VerbosityDebug
)

// VerbosityFromCount maps the number of -v flags given on the command line
// to a verbosity level.
func VerbosityFromCount(count int) Verbosity {
	switch {
	case count <= 0:
		return VerbosityNormal
	case count == 1:
		return VerbosityVerbose
	default:
		return VerbosityDebug
	}
}

const (
	reset      = "\033[0m"
	green      = "\033[32m"
	yellowText = "\033[33m"
	redText    = "\033[31m"

	checkmark   = "✔"
	redXEmoji   = "❌"
	warningSign = "⚠"
)

// Logger defines methods for logging info, warning, and error messages.
type Logger interface {
	Info(format string, a ...any)
	Check(format string, a ...any)
	Warning(format string, a ...any)
	Error(err error)
	Debug(format string, a ...any)
	Trace(format string, a ...any)
	SetVerbosity(v Verbosity)
}

var _ Logger = (*FunLogger)(nil)

// FunLogger implements the Logger interface using emojis for messages.
// It is safe for concurrent use; writes to Out are serialized.
type FunLogger struct {
	// Out receives every message. Defaults to os.Stderr so that reports
	// written to stdout stay machine readable.
	Out io.Writer
	// ExitFunc exits the application, defaults to os.Exit.
	ExitFunc func(int)
	// NoColor disables ANSI colors. When unset, colors are used only if Out
	// is a terminal.
	NoColor bool

	verbosity atomic.Int32
	mu        sync.Mutex
}

// NewLogger creates a new instance of FunLogger.
func NewLogger() *FunLogger {
	l := &FunLogger{
		Out:      os.Stderr,
		ExitFunc: os.Exit,
	}
	l.verbosity.Store(int32(VerbosityNormal))
	return l
}

// SetVerbosity sets the verbosity level for the logger.
func (l *FunLogger) SetVerbosity(v Verbosity) {
	l.verbosity.Store(int32(v)) //nolint:gosec // Verbosity is an iota (0-3), cannot overflow int32
}

// Verbosity returns the current verbosity level.
func (l *FunLogger) Verbosity() Verbosity {
	return Verbosity(l.verbosity.Load())
}

// Info prints an information message with no emoji.
// Only prints if Verbosity >= VerbosityNormal.
func (l *FunLogger) Info(format string, a ...any) {
	if l.Verbosity() < VerbosityNormal {
		return
	}
	l.write("", "", fmt.Sprintf(format, a...))
}

// Check prints an information message with a check emoji.
// Only prints if Verbosity >= VerbosityNormal.
func (l *FunLogger) Check(format string, a ...any) {
	if l.Verbosity() < VerbosityNormal {
		return
	}
	l.write(green, checkmark, fmt.Sprintf(format, a...))
}

// Warning prints a warning message with a warning emoji.
// Always prints regardless of verbosity level.
func (l *FunLogger) Warning(format string, a ...any) {
	l.write(yellowText, warningSign, fmt.Sprintf(format, a...))
}

// Error prints an error message with an X emoji.
// Always prints regardless of verbosity level.
func (l *FunLogger) Error(err error) {
	l.write(redText, redXEmoji, err.Error())
}

// Debug prints a debug message.
// Only prints if Verbosity >= VerbosityVerbose.
func (l *FunLogger) Debug(format string, a ...any) {
	if l.Verbosity() < VerbosityVerbose {
		return
	}
	l.write("", "", "[DEBUG] "+fmt.Sprintf(format, a...))
}

// Trace prints a trace message.
// Only prints if Verbosity >= VerbosityDebug.
func (l *FunLogger) Trace(format string, a ...any) {
	if l.Verbosity() < VerbosityDebug {
		return
	}
	l.write("", "", "[TRACE] "+fmt.Sprintf(format, a...))
}

// Exit terminates the process through ExitFunc.
func (l *FunLogger) Exit(code int) {
	l.ExitFunc(code)
}

func (l *FunLogger) write(color, emoji, message string) {
	if len(message) == 0 || message[len(message)-1] != '\n' {
		message += "\n"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case emoji == "":
		fmt.Fprint(l.Out, message) // nolint: errcheck
	case l.colorEnabled():
		fmt.Fprintf(l.Out, "%s%s%s\t%s", color, emoji, reset, message) // nolint: errcheck
	default:
		fmt.Fprintf(l.Out, "%s\t%s", emoji, message) // nolint: errcheck
	}
}

func (l *FunLogger) colorEnabled() bool {
	if l.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	w, ok := l.Out.(fdWriter)
	return ok && isTerminal(w)
}

// isTerminal returns whether we have a terminal or not
func isTerminal(w fdWriter) bool {
	return isatty.IsTerminal(w.Fd())
}
