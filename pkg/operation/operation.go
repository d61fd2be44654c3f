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

package operation

import (
	"context"

	"github.com/walteh/pathshift/pkg/log"
	"github.com/walteh/pathshift/pkg/selector"
	"github.com/walteh/pathshift/pkg/status"
)

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for a shift run
type Options struct {
	// Directory holds the path files
	Directory string
	// Targets are file name prefixes; a file matching any of them is shifted
	Targets []string
	// Distance is the signed shift amount in field units
	Distance float64
	// Sideways shifts perpendicular to each path's heading
	Sideways bool
	// Ignore drops matching file names (doublestar globs)
	Ignore []string
	// DryRun computes and reports deltas without writing
	DryRun bool
	// Backup writes the original bytes to <file>.bak before overwriting
	Backup bool

	// StatusMgr performs file I/O and tracks outcomes
	StatusMgr *status.Manager
	// Console prints one line per file. Defaults to the logger in ctx.
	Console *log.Logger
	// SelectOptions are passed to selector.Select after the ignore patterns
	SelectOptions []selector.Option
}

// 🧱 BaseOperation carries the options shared by operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation fills in defaults
func NewBaseOperation(opts Options) BaseOperation {
	if opts.StatusMgr == nil {
		opts.StatusMgr = status.NewManager(nil)
	}
	return BaseOperation{Options: opts}
}

// ignorePatterns returns the configured globs plus, when backups are
// written, the backup suffix and stale backup temp files.
func (op *BaseOperation) ignorePatterns() []string {
	patterns := append([]string(nil), op.Ignore...)
	if op.Backup {
		patterns = append(patterns, "*"+status.BackupSuffix, status.TempPattern)
	}
	return patterns
}

func (op *BaseOperation) console(ctx context.Context) *log.Logger {
	if op.Console != nil {
		return op.Console
	}
	return log.FromContext(ctx)
}

func (op *BaseOperation) selectOptions() []selector.Option {
	opts := []selector.Option{selector.WithIgnore(op.ignorePatterns()...)}
	return append(opts, op.SelectOptions...)
}
