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

// Package testutil provides shared testing utilities, fixtures, and mocks
// for the pegasus-check test suite.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TB is the subset of testing.TB used by the helpers below. Both
// *testing.T and ginkgo's GinkgoT() satisfy it.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
	TempDir() string
}

// MustWriteFile writes content to a file, failing the test if an error occurs.
func MustWriteFile(t TB, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// ConfigDir creates a PEGASUS_CONFIG_PATH style directory holding an empty
// file for each of the given names.
func ConfigDir(t TB, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		MustWriteFile(t, filepath.Join(dir, name), "")
	}
	return dir
}

// fakeShellScript mimics `./run.sh shell -n <cluster>`: it reads one
// command from stdin and replays responses/<cluster>/<command>.out, exiting
// with the code stored in the matching .rc file. A .sleep file delays the
// answer by the given number of seconds.
const fakeShellScript = `#!/usr/bin/env bash
cluster="$3"
read -r cmd
base="responses/${cluster}/${cmd// /_}"
if [ -f "${base}.sleep" ]; then
  sleep "$(cat "${base}.sleep")"
fi
if [ ! -f "${base}.out" ]; then
  echo "ERROR: no response recorded for cluster ${cluster} command ${cmd}"
  exit 2
fi
cat "${base}.out"
if [ -f "${base}.rc" ]; then
  exit "$(cat "${base}.rc")"
fi
exit 0
`

// FakeShell is a PEGASUS_SHELL_PATH style directory holding a scripted
// run.sh.
type FakeShell struct {
	t   TB
	Dir string
}

// NewFakeShell writes an executable run.sh into a fresh temp directory.
func NewFakeShell(t TB) *FakeShell {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(script, []byte(fakeShellScript), 0700); err != nil { // nolint:gosec
		t.Fatalf("failed to write %s: %v", script, err)
	}
	return &FakeShell{t: t, Dir: dir}
}

// Respond records the output and exit code returned for command on cluster.
func (f *FakeShell) Respond(cluster, command, output string, exitCode int) *FakeShell {
	f.t.Helper()
	base := f.base(cluster, command)
	MustWriteFile(f.t, base+".out", output)
	if exitCode != 0 {
		MustWriteFile(f.t, base+".rc", strconv.Itoa(exitCode))
	}
	return f
}

// Delay makes command on cluster sleep for the given number of seconds
// before answering.
func (f *FakeShell) Delay(cluster, command string, seconds int) *FakeShell {
	f.t.Helper()
	MustWriteFile(f.t, f.base(cluster, command)+".sleep", strconv.Itoa(seconds))
	return f
}

// Healthy records balanced, fully healthy answers for cluster.
func (f *FakeShell) Healthy(cluster string) *FakeShell {
	f.t.Helper()
	f.Respond(cluster, "nodes -d", NodesDetailOutput(cluster, 10, 10, 10), 0)
	f.Respond(cluster, "ls -d", LsDetailOutput(cluster, 0, 0), 0)
	return f
}

func (f *FakeShell) base(cluster, command string) string {
	return filepath.Join(f.Dir, "responses", cluster, strings.ReplaceAll(command, " ", "_"))
}
