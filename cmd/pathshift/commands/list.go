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

package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pathshift/cmd/pathshift/opts"
	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/log"
	"github.com/walteh/pathshift/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates a new list command
func NewListCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [targets]",
		Short: "List the path files a shift would touch",
		Long: `List shows every file a shift with the same targets would select, with its
heading and waypoint count. Nothing is written. Files that would stop a shift
are listed with the reason.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "list").Logger().WithContext(ctx)

			console := log.NewWithLogger(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
			ctx = log.NewContext(ctx, console)
			console.Header("listing path files")

			cfg, err := ro.Resolve(ctx, args, false)
			if err != nil {
				return err
			}

			summaries, err := operation.Inspect(ctx, operation.Options{
				Directory: cfg.Directory,
				Targets:   cfg.Targets,
				Ignore:    cfg.Ignore,
				Backup:    cfg.Backup,
			})
			if err != nil {
				return err
			}

			failed := 0
			data := pterm.TableData{{"File", "Heading", "Waypoints", "Status"}}
			for _, s := range summaries {
				row := []string{s.Name, strconv.FormatFloat(s.Heading, 'g', -1, 64), strconv.Itoa(s.Waypoints), "ok"}
				if s.Err != nil {
					row[1], row[2] = "-", "-"
					row[3] = string(errcode.CodeOf(s.Err))
					failed++
				}
				data = append(data, row)
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)

			if failed > 0 {
				console.Warningf("%d of %d file(s) would stop a shift", failed, len(summaries))
			} else {
				console.Infof("%d file(s) match", len(summaries))
			}
			return nil
		},
	}

	return cmd
}
