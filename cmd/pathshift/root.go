// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pathshift/cmd/pathshift/commands"
	"github.com/walteh/pathshift/cmd/pathshift/opts"
)

// newRootCmd builds the command tree. Structured logs go to logOut.
func newRootCmd(ro *opts.RootOpts, logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pathshift",
		Short: "Shift PathPlanner path files in place",
		Long: `pathshift moves the waypoints of PathPlanner .path files by a fixed distance
along each path's final heading, rewriting the files in place.

The directory comes from --dir, else FOLDER_FILEPATH, else the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(logOut, ro.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	// Add shared flags
	addRootFlags(rootCmd, ro)

	// Add commands
	rootCmd.AddCommand(
		commands.NewShiftCmd(ro),
		commands.NewListCmd(ro),
		commands.NewVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, ro *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&ro.ConfigFile, "config", "c", "", "config file path (.json, .yaml, .yml or .hcl)")
	cmd.PersistentFlags().StringVar(&ro.Directory, "dir", "", "directory holding the path files (overrides FOLDER_FILEPATH)")
	cmd.PersistentFlags().StringArrayVar(&ro.Ignore, "ignore", nil, "glob of file names to skip (repeatable)")
	cmd.PersistentFlags().BoolVarP(&ro.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(out io.Writer, debug bool) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log
}
