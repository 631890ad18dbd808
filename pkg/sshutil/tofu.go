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

package sshutil

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
)

// knownHostsMu serializes access to known_hosts files when several
// clusters are checked in parallel through the same jump host.
var knownHostsMu sync.Mutex

// DefaultKnownHostsPath returns the known_hosts file used when none is
// configured.
func DefaultKnownHostsPath() (string, error) {
	cacheBase, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory for TOFU host keys: %w", err)
	}
	return filepath.Join(cacheBase, "pegasus-check", "known_hosts"), nil
}

// TOFUHostKeyCallback returns an ssh.HostKeyCallback implementing
// Trust-On-First-Use host key verification against knownHostsPath. An
// empty path selects DefaultKnownHostsPath.
func TOFUHostKeyCallback(knownHostsPath string) ssh.HostKeyCallback {
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		path := knownHostsPath
		if path == "" {
			var err error
			if path, err = DefaultKnownHostsPath(); err != nil {
				return err
			}
		}

		knownHostsMu.Lock()
		defer knownHostsMu.Unlock()

		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("failed to create known_hosts directory: %w", err)
		}

		keyStr := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key)))

		data, err := os.ReadFile(path) // nolint:gosec // path comes from trusted config
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read known_hosts: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			parts := strings.SplitN(line, " ", 2)
			if len(parts) != 2 || parts[0] != hostname {
				continue
			}
			if strings.TrimSpace(parts[1]) == keyStr {
				return nil
			}
			return fmt.Errorf("host key mismatch for %s: stored key differs from presented key (possible MITM)", hostname)
		}

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // nolint:gosec
		if err != nil {
			return fmt.Errorf("failed to open known_hosts for writing: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := fmt.Fprintf(f, "%s %s\n", hostname, keyStr); err != nil {
			return fmt.Errorf("failed to write known host: %w", err)
		}
		return nil
	}
}
