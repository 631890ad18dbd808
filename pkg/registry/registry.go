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

// Package registry discovers the Pegasus clusters configured on this host.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ConfigPrefix starts every cluster configuration file name.
	ConfigPrefix = "pegasus-"
	// ConfigSuffix ends every cluster configuration file name.
	ConfigSuffix = ".cfg"
	// proxySuffix marks proxy configurations, which are not clusters.
	proxySuffix = "proxy.cfg"
)

// Cluster is a Pegasus cluster known by its configuration file.
type Cluster struct {
	Name string `json:"name" yaml:"name"`
	// ConfigFile is the absolute path of the configuration file.
	ConfigFile string `json:"configFile" yaml:"configFile"`
}

// Discover lists the clusters configured in configDir whose name starts
// with env. An empty env matches every cluster. Clusters are returned in
// directory listing order and are not de-duplicated.
func Discover(configDir, env string) ([]Cluster, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory %s: %w", configDir, err)
	}

	prefix := ConfigPrefix + env
	var clusters []Cluster
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) ||
			!strings.HasSuffix(name, ConfigSuffix) ||
			strings.HasSuffix(name, proxySuffix) {
			continue
		}
		// "pegasus-.cfg" names no cluster.
		if len(name) <= len(ConfigPrefix)+len(ConfigSuffix) {
			continue
		}

		path := filepath.Join(configDir, name)
		if !isRegular(entry, path) {
			continue
		}

		clusters = append(clusters, Cluster{
			Name:       strings.TrimSuffix(strings.TrimPrefix(name, ConfigPrefix), ConfigSuffix),
			ConfigFile: path,
		})
	}
	return clusters, nil
}

// isRegular reports whether entry is a regular file, following symlinks.
func isRegular(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
