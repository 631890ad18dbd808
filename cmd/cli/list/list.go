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

package list

import (
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/pegasus-kv/pegasus-check/cmd/cli/common"
	"github.com/pegasus-kv/pegasus-check/internal/logger"
	"github.com/pegasus-kv/pegasus-check/pkg/output"
	"github.com/pegasus-kv/pegasus-check/pkg/registry"
)

type command struct {
	log          *logger.FunLogger
	opts         common.Options
	outputFormat string
	quiet        bool
}

// Clusters is the list output, one row per configured cluster.
type Clusters []registry.Cluster

var _ output.TableData = Clusters{}

// Headers implements output.TableData.
func (c Clusters) Headers() []string {
	return []string{"Name", "Config File"}
}

// Rows implements output.TableData.
func (c Clusters) Rows() [][]string {
	rows := make([][]string, 0, len(c))
	for _, cluster := range c {
		rows = append(rows, []string{cluster.Name, cluster.ConfigFile})
	}
	return rows
}

// NewCommand constructs the list command with the specified logger
func NewCommand(log *logger.FunLogger) *cli.Command {
	c := command{
		log: log,
	}
	return c.build()
}

func (m *command) build() *cli.Command {
	list := cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the Pegasus clusters configured on this host",
		Flags: []cli.Flag{
			m.opts.EnvFlag(),
			m.opts.ConfigFileFlag(),
			m.opts.ConfigPathFlag(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output format: table, json, yaml",
				Value:       string(output.FormatTable),
				Destination: &m.outputFormat,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "Only print cluster names",
				Destination: &m.quiet,
			},
		},
		Action: m.run,
	}

	return &list
}

func (m *command) run(c *cli.Context) error {
	formatter, err := output.NewFormatter(m.outputFormat, output.FormatTable)
	if err != nil {
		return err
	}
	formatter.SetWriter(c.App.Writer)

	cfg, err := m.opts.Load()
	if err != nil {
		return err
	}
	configPath, err := common.RequireConfigPath(&cfg.Spec)
	if err != nil {
		return err
	}

	clusters, err := registry.Discover(configPath, cfg.Spec.Env)
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	if m.quiet {
		for _, cluster := range clusters {
			if _, err := fmt.Fprintln(c.App.Writer, cluster.Name); err != nil {
				return err
			}
		}
		return nil
	}

	if len(clusters) == 0 && formatter.Format() == output.FormatTable {
		m.log.Info("No clusters found")
		return nil
	}
	if clusters == nil {
		clusters = []registry.Cluster{}
	}
	return formatter.Print(Clusters(clusters))
}
