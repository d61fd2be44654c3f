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
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pathshift/cmd/pathshift/opts"
	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/log"
	"github.com/walteh/pathshift/pkg/operation"
	"github.com/walteh/pathshift/pkg/status"
)

// NewShiftCmd creates a new shift command
func NewShiftCmd(ro *opts.RootOpts) *cobra.Command {
	var (
		backup bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "shift <targets> <amount> [sideways]",
		Short: "Shift path files along their end heading",
		Long: `Shift moves every waypoint of the matching path files by a fixed distance.
It will:
1. Select files in the directory whose name starts with one of the targets
2. Read each file's heading from goalEndState.rotation
3. Move every anchor and control point by amount along that heading
   (or 90° left of it when sideways is true)
4. Write each file back in place

targets is a comma-separated list of file name prefixes. The first file that
cannot be read or parsed stops the run. Running twice shifts twice.`,
		Example: `  pathshift shift a,b 0.5 --dir deploy/pathplanner/paths
  FOLDER_FILEPATH=deploy/pathplanner/paths pathshift shift a1 -0.25 true
  pathshift shift --config pathshift.hcl --dry-run`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "shift").Logger().WithContext(ctx)
			logger := zerolog.Ctx(ctx)

			console := log.NewWithLogger(cmd.OutOrStdout(), *logger)
			ctx = log.NewContext(ctx, console)
			console.Header("shifting path files")

			cfg, err := ro.Resolve(ctx, args, true)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backup") {
				cfg.Backup = backup
			}
			cfg.DryRun = dryRun

			statusMgr := status.NewManager(nil)

			op := operation.NewShiftOperation(operation.Options{
				Directory: cfg.Directory,
				Targets:   cfg.Targets,
				Distance:  cfg.Distance(),
				Sideways:  cfg.Sideways,
				Ignore:    cfg.Ignore,
				DryRun:    cfg.DryRun,
				Backup:    cfg.Backup,
				StatusMgr: statusMgr,
			})

			if err := operation.NewRunner(logger).Run(ctx, op); err != nil {
				reportFailure(ctx, console, statusMgr, err)
				return err
			}

			if cfg.DryRun {
				console.Successf("previewed %d file(s), nothing written", statusMgr.Count(status.StatusPreview))
				return nil
			}
			console.Successf("shifted %d file(s)", statusMgr.Count(status.StatusShifted))

			backups := 0
			for _, info := range statusMgr.ListFiles(ctx) {
				if info.Backup != "" {
					backups++
				}
			}
			if backups > 0 {
				console.Infof("kept %d original(s) as *%s", backups, status.BackupSuffix)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&backup, "backup", false, "write <file>.bak with the original content before overwriting")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the shift without writing files")

	return cmd
}

// reportFailure tells the user how far a stopped run got and which file
// stopped it.
func reportFailure(ctx context.Context, console *log.Logger, statusMgr *status.Manager, err error) {
	processed, total := statusMgr.Progress()
	if total == 0 {
		return
	}
	console.Errorf("stopped after %d of %d file(s)", processed, total)
	if info, ierr := statusMgr.GetFileInfo(ctx, errcode.PathOf(err)); ierr == nil && info.Error != nil {
		console.Errorf("%s: %s", filepath.Base(info.Path), errcode.CodeOf(info.Error))
	}
}
