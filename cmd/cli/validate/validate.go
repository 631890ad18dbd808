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

package validate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	cli "github.com/urfave/cli/v2"

	"github.com/pegasus-kv/pegasus-check/api/pegasus/v1alpha1"
	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/registry"
)

type command struct {
	log        *logger.FunLogger
	configFile string
	strict     bool
}

// ValidationResult represents the result of a validation check
type ValidationResult struct {
	Check   string
	Passed  bool
	Warning bool
	Message string
}

// NewCommand constructs the validate command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m *command) build() *cli.Command {
	validateCmd := cli.Command{
		Name:  "validate",
		Usage: "Validate a CheckConfig file",
		Description: `Validate a CheckConfig file before running checks with it.

Checks performed:
  - Config file is valid YAML with known fields only
  - Field values are consistent
  - Config directory is readable and holds clusters
  - Admin shell is installed (local runner)
  - SSH private key is readable (ssh runner)
  - AWS credentials are configured (ssm runner)

Examples:
  # Validate a config file
  pegasus-check validate -f check.yaml

  # Strict mode (fail on warnings)
  pegasus-check validate -f check.yaml --strict`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"f"},
				Usage:       "Path to the CheckConfig file",
				Destination: &m.configFile,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "Fail on warnings (not just errors)",
				Destination: &m.strict,
			},
		},
		Action: func(c *cli.Context) error {
			return m.run(c.Context, c.App.Writer)
		},
	}

	return &validateCmd
}

func (m *command) run(ctx context.Context, w io.Writer) error {
	cfg, err := v1alpha1.Load(m.configFile)
	if err != nil {
		m.printResults(w, []ValidationResult{{
			Check:   "Config file",
			Message: err.Error(),
		}})
		return fmt.Errorf("validation failed")
	}

	results := []ValidationResult{{
		Check:   "Config file",
		Passed:  true,
		Message: fmt.Sprintf("Valid %s (runner: %s)", cfg.Kind, cfg.Spec.Runner.Type),
	}}
	results = append(results, m.validateConfigPath(&cfg.Spec))
	switch cfg.Spec.Runner.Type {
	case v1alpha1.RunnerLocal:
		results = append(results, m.validateShellPath(&cfg.Spec))
	case v1alpha1.RunnerSSH:
		results = append(results, m.validateSSHKey(cfg.Spec.Runner.SSH))
	case v1alpha1.RunnerSSM:
		results = append(results, m.validateAWSCredentials(ctx, cfg.Spec.Runner.SSM))
	}

	m.printResults(w, results)

	hasErrors, hasWarnings := false, false
	for _, r := range results {
		switch {
		case r.Passed:
		case r.Warning:
			hasWarnings = true
		default:
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("validation failed with errors")
	}
	if hasWarnings && m.strict {
		return fmt.Errorf("validation failed with warnings (strict mode)")
	}

	m.log.Check("Validation passed")
	return nil
}

func (m *command) validateConfigPath(spec *v1alpha1.CheckSpec) ValidationResult {
	result := ValidationResult{Check: "Config path"}
	if spec.ConfigPath == "" {
		result.Warning = true
		result.Message = "Warning: not set, PEGASUS_CONFIG_PATH will be used"
		return result
	}
	clusters, err := registry.Discover(expandPath(spec.ConfigPath), spec.Env)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	if len(clusters) == 0 {
		result.Warning = true
		result.Message = fmt.Sprintf("Warning: no cluster found for env %q", spec.Env)
		return result
	}
	result.Passed = true
	result.Message = fmt.Sprintf("%d cluster(s) found", len(clusters))
	return result
}

func (m *command) validateShellPath(spec *v1alpha1.CheckSpec) ValidationResult {
	result := ValidationResult{Check: "Admin shell"}
	if spec.ShellPath == "" {
		result.Warning = true
		result.Message = "Warning: not set, PEGASUS_SHELL_PATH will be used"
		return result
	}
	script := filepath.Join(expandPath(spec.ShellPath), "run.sh")
	info, err := os.Stat(script)
	if err != nil {
		result.Message = fmt.Sprintf("run.sh not found: %s", script)
		return result
	}
	if info.Mode().Perm()&0111 == 0 {
		result.Message = fmt.Sprintf("run.sh is not executable: %s", script)
		return result
	}
	result.Passed = true
	result.Message = fmt.Sprintf("Found: %s", script)
	return result
}

func (m *command) validateSSHKey(s *v1alpha1.SSHRunner) ValidationResult {
	result := ValidationResult{Check: "SSH private key"}
	keyPath := expandPath(s.PrivateKey)
	if _, err := os.ReadFile(keyPath); err != nil { //nolint:gosec // path is from trusted config
		result.Message = fmt.Sprintf("Cannot read private key: %v", err)
		return result
	}
	result.Passed = true
	result.Message = fmt.Sprintf("Readable: %s", keyPath)
	return result
}

func (m *command) validateAWSCredentials(ctx context.Context, s *v1alpha1.SSMRunner) ValidationResult {
	result := ValidationResult{Check: "AWS credentials"}

	var opts []func(*config.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to load AWS config: %v", err)
		return result
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to retrieve credentials: %v", err)
		return result
	}
	if creds.AccessKeyID == "" {
		result.Message = "No AWS access key found"
		return result
	}
	if cfg.Region == "" {
		result.Warning = true
		result.Message = "Warning: credentials found but no region is configured"
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Configured (source: %s, region: %s)", creds.Source, cfg.Region)
	return result
}

func (m *command) printResults(w io.Writer, results []ValidationResult) {
	fmt.Fprint(w, "\n=== Validation Results ===\n\n") //nolint:errcheck

	for _, r := range results {
		icon := "✓"
		if !r.Passed {
			icon = "✗"
		}
		fmt.Fprintf(w, "  %s %s\n", icon, r.Check) //nolint:errcheck
		fmt.Fprintf(w, "    %s\n", r.Message)      //nolint:errcheck
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return strings.Replace(path, "~", home, 1)
		}
	}
	return path
}
