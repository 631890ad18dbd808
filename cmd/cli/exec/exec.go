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

package exec

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v2"

	"github.com/pegasus-kv/pegasus-check/cmd/cli/common"
	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/diagnostic"
)

type command struct {
	log  *logger.FunLogger
	opts common.Options
	raw  bool
}

// NewCommand constructs the exec command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m *command) build() *cli.Command {
	execCmd := cli.Command{
		Name:      "exec",
		Usage:     "Run an admin shell command against a cluster",
		ArgsUsage: "<cluster> -- <command>",
		Description: `Run a single Pegasus admin shell command against a cluster, using the
same runner as the check command, and print its output.

Examples:
  # Show the replica servers of a cluster
  pegasus-check exec c3srv-a -- nodes -d

  # Print the whole shell session, banner included
  pegasus-check exec --raw c3srv-a -- ls -d`,
		Flags: []cli.Flag{
			m.opts.ConfigFileFlag(),
			m.opts.ShellPathFlag(),
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "Print the raw shell output instead of the extracted payload",
				Destination: &m.raw,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("cluster name is required")
			}
			cluster := c.Args().Get(0)

			var args []string
			for _, arg := range c.Args().Slice()[1:] {
				if arg == "--" && len(args) == 0 {
					continue
				}
				args = append(args, arg)
			}
			if len(args) == 0 {
				return fmt.Errorf("admin shell command is required")
			}

			return m.run(c, cluster, strings.Join(args, " "))
		},
	}

	return &execCmd
}

func (m *command) run(c *cli.Context, cluster, adminCmd string) error {
	cfg, err := m.opts.Load()
	if err != nil {
		return err
	}

	r, err := common.NewRunner(c.Context, m.log, &cfg.Spec)
	if err != nil {
		return err
	}

	result, err := r.Run(c.Context, cluster, adminCmd)
	if err != nil {
		return fmt.Errorf("cluster %s: %w", cluster, err)
	}

	out := result.Output
	if !m.raw {
		out = diagnostic.Extract(out, common.Markers(&cfg.Spec))
	}
	_, err = fmt.Fprint(c.App.Writer, out)
	return err
}
