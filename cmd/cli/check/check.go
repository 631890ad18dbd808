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

package check

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v2"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/pegasus-kv/pegasus-check/cmd/cli/common"
	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/checker"
	"github.com/pegasus-kv/pegasus-check/pkg/health"
	"github.com/pegasus-kv/pegasus-check/pkg/output"
	"github.com/pegasus-kv/pegasus-check/pkg/registry"
)

type command struct {
	log          *logger.FunLogger
	opts         common.Options
	outputFormat string
	verbose      int
}

// NewCommand constructs the check command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m *command) build() *cli.Command {
	checkCmd := cli.Command{
		Name:  "check",
		Usage: "Check the health of Pegasus clusters",
		Description: `Check every cluster configured in PEGASUS_CONFIG_PATH for unhealthy
partitions and unbalanced primary replicas.

Examples:
  # Check all clusters of an env
  pegasus-check check --env c3srv

  # Check 4 clusters at a time with a 2 minute timeout per command
  pegasus-check check --parallel 4 --timeout 2m

  # Emit a machine readable report
  pegasus-check check -o json`,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			m.opts.EnvFlag(),
			m.opts.ConfigFileFlag(),
			m.opts.ConfigPathFlag(),
			m.opts.ShellPathFlag(),
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "Number of clusters checked at once",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout of each admin shell command",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "Stop at the first cluster that cannot be checked",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print the admin shell command lines, repeat to also print their output",
				Count:   &m.verbose,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output format: text, table, json, yaml",
				Value:       string(output.FormatText),
				Destination: &m.outputFormat,
			},
		},
		Action: m.run,
	}

	return &checkCmd
}

func (m *command) run(c *cli.Context) error {
	if m.verbose > 0 {
		m.log.SetVerbosity(logger.VerbosityFromCount(m.verbose))
	}

	formatter, err := output.NewFormatter(m.outputFormat, output.FormatText)
	if err != nil {
		return err
	}
	formatter.SetWriter(c.App.Writer)

	cfg, err := m.opts.Load()
	if err != nil {
		return err
	}
	if c.IsSet("parallel") {
		cfg.Spec.Parallel = c.Int("parallel")
	}
	if c.IsSet("timeout") {
		cfg.Spec.Timeout = &metav1.Duration{Duration: c.Duration("timeout")}
	}
	if c.IsSet("fail-fast") {
		cfg.Spec.FailFast = c.Bool("fail-fast")
	}
	if err := cfg.Spec.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	configPath, err := common.RequireConfigPath(&cfg.Spec)
	if err != nil {
		return err
	}
	if _, err := common.RequireShellPath(&cfg.Spec); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := common.NewRunner(ctx, m.log, &cfg.Spec)
	if err != nil {
		return fmt.Errorf("failed to set up runner: %w", err)
	}

	clusters, err := registry.Discover(configPath, cfg.Spec.Env)
	if err != nil {
		return err
	}
	if len(clusters) == 0 {
		m.log.Warning("No cluster found in %s for env %q", configPath, cfg.Spec.Env)
	}

	report := m.check(ctx, cfg.Spec.Parallel, cfg.Spec.FailFast, health.NewEvaluator(m.log, r, common.Markers(&cfg.Spec)), clusters)
	report.Env = cfg.Spec.Env

	if err := formatter.Print(report); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if failed := report.Failed(); len(failed) > 0 || len(report.Skipped) > 0 {
		return fmt.Errorf("%d of %d cluster(s) could not be checked",
			len(failed)+len(report.Skipped), len(clusters))
	}
	return nil
}

func (m *command) check(ctx context.Context, parallel int, failFast bool, eval checker.ClusterEvaluator, clusters []registry.Cluster) checker.FleetReport {
	c := &checker.Checker{
		Log:         m.log,
		Evaluator:   eval,
		Concurrency: parallel,
		FailFast:    failFast,
	}
	return c.Run(ctx, clusters)
}
