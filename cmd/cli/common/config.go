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

// Package common holds the flags and helpers shared by the pegasus-check
// commands.
package common

import (
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/pegasus-kv/pegasus-check/api/pegasus/v1alpha1"
	"github.com/pegasus-kv/pegasus-check/pkg/diagnostic"
)

// Environment variables naming the local Pegasus installation.
const (
	EnvConfigPath = "PEGASUS_CONFIG_PATH"
	EnvShellPath  = "PEGASUS_SHELL_PATH"
)

// MissingEnvError is returned when a required environment variable is not
// set and no flag or config file supplies its value.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("Please configure environment variable %s in your bashrc or zshrc", e.Name)
}

// Options are the flags shared by the commands.
type Options struct {
	ConfigFile string
	ConfigPath string
	ShellPath  string
	Env        string
}

// ConfigFileFlag selects a CheckConfig file.
func (o *Options) ConfigFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"f"},
		Usage:       "Path to a CheckConfig file",
		Destination: &o.ConfigFile,
	}
}

// ConfigPathFlag overrides PEGASUS_CONFIG_PATH.
func (o *Options) ConfigPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config-path",
		Usage:       "Directory holding the pegasus-<cluster>.cfg files",
		EnvVars:     []string{EnvConfigPath},
		Destination: &o.ConfigPath,
	}
}

// ShellPathFlag overrides PEGASUS_SHELL_PATH.
func (o *Options) ShellPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "shell-path",
		Usage:       "Directory of the Pegasus admin shell (run.sh)",
		EnvVars:     []string{EnvShellPath},
		Destination: &o.ShellPath,
	}
}

// EnvFlag filters clusters by name prefix.
func (o *Options) EnvFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "env",
		Aliases:     []string{"e"},
		Usage:       "Env of pegasus cluster, eg. c3srv or c4tst",
		Destination: &o.Env,
	}
}

// Load reads the CheckConfig file when one was given, or returns a default
// configuration. Flag values then override the file.
func (o *Options) Load() (*v1alpha1.CheckConfig, error) {
	var cfg *v1alpha1.CheckConfig
	if o.ConfigFile != "" {
		var err error
		if cfg, err = v1alpha1.Load(o.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = &v1alpha1.CheckConfig{}
		cfg.Default()
	}

	if o.ConfigPath != "" {
		cfg.Spec.ConfigPath = o.ConfigPath
	}
	if o.ShellPath != "" {
		cfg.Spec.ShellPath = o.ShellPath
	}
	if o.Env != "" {
		cfg.Spec.Env = o.Env
	}
	return cfg, nil
}

// RequireConfigPath returns the configuration directory of spec.
func RequireConfigPath(spec *v1alpha1.CheckSpec) (string, error) {
	if spec.ConfigPath == "" {
		return "", &MissingEnvError{Name: EnvConfigPath}
	}
	return spec.ConfigPath, nil
}

// RequireShellPath returns the admin shell directory of spec.
func RequireShellPath(spec *v1alpha1.CheckSpec) (string, error) {
	if spec.ShellPath == "" {
		return "", &MissingEnvError{Name: EnvShellPath}
	}
	return spec.ShellPath, nil
}

// Markers returns the payload markers of spec, with defaults for unset ones.
func Markers(spec *v1alpha1.CheckSpec) diagnostic.Markers {
	markers := diagnostic.DefaultMarkers()
	if spec.Markers.Start != "" {
		markers.Start = spec.Markers.Start
	}
	if spec.Markers.End != "" {
		markers.End = spec.Markers.End
	}
	return markers
}
