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

	"github.com/golang/geo/r2"
	"github.com/rs/zerolog"
	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/geometry"
	"github.com/walteh/pathshift/pkg/log"
	"github.com/walteh/pathshift/pkg/pathfile"
	"github.com/walteh/pathshift/pkg/selector"
	"github.com/walteh/pathshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📐 Result is one shifted path file, before it is written
type Result struct {
	Path      string
	Heading   float64  // goalEndState.rotation, degrees
	Delta     r2.Point // applied translation
	Waypoints int
	Original  []byte
	Content   []byte // serialized shifted document
	Backup    string // backup path, when one was written
}

// FileOptions controls how ShiftFile treats the file on disk.
type FileOptions struct {
	// DryRun skips the write; the result still carries the new content
	DryRun bool
	// Backup copies the original bytes to <file>.bak before the rewrite
	Backup bool
}

// 🔄 ShiftBytes shifts the path file held in data. It never touches disk.
func ShiftBytes(ctx context.Context, data []byte, path string, distance float64, sideways bool) (*Result, error) {
	doc, err := pathfile.Parse(data, path)
	if err != nil {
		return nil, err
	}

	heading := doc.Heading()
	delta := geometry.Transform(distance, heading, sideways)
	doc.Translate(delta)

	content, err := doc.MarshalIndent()
	if err != nil {
		return nil, errcode.Wrap(err, errcode.MalformedDocument, path, "encoding shifted document")
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", path).
		Float64("heading", heading).
		Float64("dx", delta.X).
		Float64("dy", delta.Y).
		Int("waypoints", len(doc.Waypoints)).
		Msg("shifted path")

	return &Result{
		Path:      path,
		Heading:   heading,
		Delta:     delta,
		Waypoints: len(doc.Waypoints),
		Original:  data,
		Content:   content,
	}, nil
}

// 🚚 ShiftFile reads target through its open handle, shifts it and writes the
// result back over the same file.
func ShiftFile(ctx context.Context, files status.FileManager, target *selector.Target, distance float64, sideways bool, fopts FileOptions) (*Result, error) {
	data, err := files.ReadAll(ctx, target)
	if err != nil {
		return nil, err
	}
	res, err := ShiftBytes(ctx, data, target.Path, distance, sideways)
	if err != nil {
		return nil, err
	}
	if fopts.DryRun {
		return res, nil
	}
	if fopts.Backup {
		if res.Backup, err = files.BackupFile(ctx, target.Path, res.Original); err != nil {
			return nil, err
		}
	}
	if err := files.Rewrite(ctx, target, res.Content); err != nil {
		return nil, err
	}
	return res, nil
}

// 📦 NewShiftOperation creates a batch shift over a directory
func NewShiftOperation(opts Options) Operation {
	return &shiftOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 📦 shiftOperation implements the batch shift
type shiftOperation struct {
	BaseOperation
}

// 🏃 Execute selects the target files and shifts them one at a time. The
// first failure stops the batch; files already shifted stay shifted.
func (op *shiftOperation) Execute(ctx context.Context) (err error) {
	logger := zerolog.Ctx(ctx)

	targets, err := selector.Select(ctx, op.Directory, op.Targets, op.selectOptions()...)
	if err != nil {
		return errors.Errorf("selecting path files: %w", err)
	}
	defer func() {
		if cerr := targets.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	logger.Debug().
		Str("directory", op.Directory).
		Strs("files", targets.Names()).
		Msg("selected path files")

	op.Console = op.console(ctx)
	console := op.Console
	console.StartBatchOperation(ctx, log.BatchOperation{
		Directory: op.Directory,
		Targets:   op.Targets,
		Distance:  op.Distance,
		Sideways:  op.Sideways,
		DryRun:    op.DryRun,
	})
	defer console.EndBatchOperation(ctx)

	// Start tracking progress
	op.StatusMgr.StartOperation(ctx, len(targets))
	defer op.StatusMgr.FinishOperation(ctx)

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("stopped before %s: %w", target.Path, err)
		}
		if err := op.processFile(ctx, target); err != nil {
			op.report(ctx, status.FileInfo{Path: target.Path, Status: status.StatusFailed, Error: err})
			return errors.Errorf("shifting %s: %w", target.Path, err)
		}
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	return nil
}

// 📄 processFile shifts a single file
func (op *shiftOperation) processFile(ctx context.Context, target *selector.Target) error {
	res, err := ShiftFile(ctx, op.StatusMgr, target, op.Distance, op.Sideways, FileOptions{
		DryRun: op.DryRun,
		Backup: op.Backup,
	})
	if err != nil {
		return err
	}

	info := status.FileInfo{
		Path:      target.Path,
		Status:    status.StatusPreview,
		Heading:   res.Heading,
		DeltaX:    res.Delta.X,
		DeltaY:    res.Delta.Y,
		Waypoints: res.Waypoints,
		Backup:    res.Backup,
	}

	if op.DryRun {
		op.report(ctx, info)
		return nil
	}

	info.Status = status.StatusShifted
	op.report(ctx, status.Written(info, res.Content))
	return nil
}

// report tracks info and echoes it to the console.
func (op *shiftOperation) report(ctx context.Context, info status.FileInfo) {
	op.StatusMgr.TrackFile(ctx, info)
	op.Console.LogFileOperation(ctx, log.FileOperation{
		Path:      info.Path,
		Status:    info.Status.String(),
		DeltaX:    info.DeltaX,
		DeltaY:    info.DeltaY,
		Waypoints: info.Waypoints,
		IsShifted: info.Status == status.StatusShifted,
		IsPreview: info.Status == status.StatusPreview,
		IsFailed:  info.Status == status.StatusFailed,
	})
}
