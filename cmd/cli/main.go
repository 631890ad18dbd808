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

package main

import (
	"os"

	"github.com/pegasus-kv/pegasus-check/cmd/cli/check"
	"github.com/pegasus-kv/pegasus-check/cmd/cli/exec"
	"github.com/pegasus-kv/pegasus-check/cmd/cli/list"
	"github.com/pegasus-kv/pegasus-check/cmd/cli/validate"
	"github.com/pegasus-kv/pegasus-check/internal/logger"

	cli "github.com/urfave/cli/v2"
)

const (
	// ProgramName is the canonical name of this program
	ProgramName = "pegasus-check"
)

type config struct {
	verbose int
	quiet   bool
}

func main() {
	log := logger.NewLogger()
	if err := newApp(log).Run(os.Args); err != nil {
		log.Error(err)
		log.Exit(1)
	}
}

func newApp(log *logger.FunLogger) *cli.App {
	config := config{}

	// Create the top-level CLI
	c := cli.NewApp()
	c.Name = ProgramName
	c.Usage = "Check the health of Pegasus clusters"
	c.Description = `
pegasus-check runs the Pegasus admin shell against every configured cluster
and reports unhealthy partitions and unbalanced replica servers.

PEGASUS_CONFIG_PATH must point to the directory holding the
pegasus-<cluster>.cfg files and PEGASUS_SHELL_PATH to the admin shell
installation (the directory holding run.sh).

Examples:
  # Check all clusters of the c3srv env
  pegasus-check check --env c3srv

  # Also print the admin shell command lines
  pegasus-check -v check --env c3srv

  # List the configured clusters
  pegasus-check list

  # Run one admin shell command
  pegasus-check exec c3srv-a -- nodes -d`
	c.Version = "0.1.0"
	// -v counts verbosity, so --version gets no short alias.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
	c.EnableBashCompletion = true
	c.UseShortOptionHandling = true

	// Setup the flags for this command
	c.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print the admin shell command lines, repeat to also print their output",
			Count:   &config.verbose,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "Only print warnings, errors and reports",
			Destination: &config.quiet,
		},
	}

	c.Before = func(*cli.Context) error {
		if config.quiet {
			log.SetVerbosity(logger.VerbosityQuiet)
		} else {
			log.SetVerbosity(logger.VerbosityFromCount(config.verbose))
		}
		return nil
	}

	// Define the subcommands
	c.Commands = []*cli.Command{
		check.NewCommand(log),
		exec.NewCommand(log),
		list.NewCommand(log),
		validate.NewCommand(log),
	}

	return c
}
