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

package operation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/log"
	"github.com/walteh/pathshift/pkg/operation"
	"github.com/walteh/pathshift/pkg/selector"
	"github.com/walteh/pathshift/pkg/status"
)

const a1Path = `{
  "version": 1.0,
  "waypoints": [
    {
      "anchor": {
        "x": 1.0,
        "y": 2.0
      },
      "prevControl": null,
      "nextControl": {
        "x": 3.0,
        "y": 4.0
      },
      "isLocked": false,
      "linkedName": null
    }
  ],
  "rotationTargets": [],
  "constraintZones": [],
  "eventMarkers": [
    {
      "name": "intake",
      "waypointRelativePos": 0.35,
      "command": {"type": "named", "data": {"name": "runIntake"}}
    }
  ],
  "globalConstraints": {
    "maxVelocity": 3.0,
    "maxAcceleration": 3.00
  },
  "goalEndState": {
    "velocity": 0,
    "rotation": 90,
    "rotateFast": false
  },
  "reversed": false,
  "folder": null,
  "previewStartingState": null,
  "useDefaultConstraints": true
}`

// twoWaypoints has both controls on the first waypoint and a heading that is
// not a multiple of 90.
const twoWaypoints = `{
  "waypoints": [
    {
      "anchor": {"x": 2.0, "y": 7.0},
      "prevControl": {"x": 1.5, "y": 6.5},
      "nextControl": {"x": 3.0, "y": 7.0},
      "isLocked": false,
      "linkedName": "start"
    },
    {
      "anchor": {"x": 5.0, "y": 5.0},
      "prevControl": {"x": 4.0, "y": 5.5},
      "nextControl": null,
      "isLocked": true,
      "linkedName": null
    }
  ],
  "goalEndState": {"velocity": 1.5, "rotation": 30}
}`

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// compact strips insignificant whitespace from a raw JSON value.
func compact(t *testing.T, raw string) string {
	t.Helper()
	require.NotEmpty(t, raw)
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, []byte(raw)))
	return buf.String()
}

func run(t *testing.T, ctx context.Context, opts operation.Options) error {
	t.Helper()
	return operation.NewShiftOperation(opts).Execute(ctx)
}

// 🧪 TestShiftOperationEndToEnd shifts a1.path forward along its heading
func TestShiftOperationEndToEnd(t *testing.T) {
	ctx := testContext(t)
	dir := writeFiles(t, map[string]string{
		"a1.path": a1Path,
		"b1.path": a1Path,
	})

	err := run(t, ctx, operation.Options{
		Directory: dir,
		Targets:   []string{"a"},
		Distance:  2.0,
	})
	require.NoError(t, err)

	got := readFile(t, filepath.Join(dir, "a1.path"))

	assert.InDelta(t, 1.0, gjson.Get(got, "waypoints.0.anchor.x").Num, 1e-9)
	assert.InDelta(t, 4.0, gjson.Get(got, "waypoints.0.anchor.y").Num, 1e-9)
	assert.InDelta(t, 3.0, gjson.Get(got, "waypoints.0.nextControl.x").Num, 1e-9)
	assert.InDelta(t, 6.0, gjson.Get(got, "waypoints.0.nextControl.y").Num, 1e-9)
	assert.Equal(t, gjson.Null, gjson.Get(got, "waypoints.0.prevControl").Type, "prevControl should stay absent")

	// unmodeled members keep their literal text
	assert.Equal(t, "1.0", gjson.Get(got, "version").Raw)
	assert.Equal(t, "3.00", gjson.Get(got, "globalConstraints.maxAcceleration").Raw)
	assert.Equal(t, "runIntake", gjson.Get(got, "eventMarkers.0.command.data.name").Str)
	assert.Equal(t, "false", gjson.Get(got, "goalEndState.rotateFast").Raw)
	assert.Equal(t, 90.0, gjson.Get(got, "goalEndState.rotation").Num)
	assert.Equal(t, "true", gjson.Get(got, "useDefaultConstraints").Raw)

	// two-space indentation and a trailing newline
	assert.True(t, strings.HasPrefix(got, "{\n  \"version\": 1.0,\n  \"waypoints\": ["), "unexpected head: %q", got[:40])
	assert.True(t, strings.HasSuffix(got, "}\n"))

	assert.Equal(t, a1Path, readFile(t, filepath.Join(dir, "b1.path")), "unmatched file should not change")
}

// 🧪 TestShiftMovesEveryPoint checks all anchors and controls get the same delta
func TestShiftMovesEveryPoint(t *testing.T) {
	ctx := testContext(t)
	res, err := operation.ShiftBytes(ctx, []byte(twoWaypoints), "two.path", 4, false)
	require.NoError(t, err)

	// cos(30°)=0.866..., sin(30°)=0.5
	assert.InDelta(t, 3.4641016151377544, res.Delta.X, 1e-9)
	assert.InDelta(t, 2.0, res.Delta.Y, 1e-9)
	assert.Equal(t, 30.0, res.Heading)
	assert.Equal(t, 2, res.Waypoints)

	out := string(res.Content)
	points := []struct {
		path string
		x, y float64
	}{
		{"waypoints.0.anchor", 2.0, 7.0},
		{"waypoints.0.prevControl", 1.5, 6.5},
		{"waypoints.0.nextControl", 3.0, 7.0},
		{"waypoints.1.anchor", 5.0, 5.0},
		{"waypoints.1.prevControl", 4.0, 5.5},
	}
	for _, p := range points {
		assert.InDelta(t, p.x+res.Delta.X, gjson.Get(out, p.path+".x").Num, 1e-9, p.path)
		assert.InDelta(t, p.y+res.Delta.Y, gjson.Get(out, p.path+".y").Num, 1e-9, p.path)
	}
	assert.Equal(t, gjson.Null, gjson.Get(out, "waypoints.1.nextControl").Type)
	assert.Equal(t, "start", gjson.Get(out, "waypoints.0.linkedName").Str)
	assert.True(t, gjson.Get(out, "waypoints.1.isLocked").Bool())
	assert.Equal(t, 1.5, gjson.Get(out, "goalEndState.velocity").Num)
	assert.Equal(t, twoWaypoints, string(res.Original))
}

// 🧪 TestShiftThenInverseRestores checks a shift and its negation cancel out
func TestShiftThenInverseRestores(t *testing.T) {
	fixtures := []struct {
		name    string
		content string
		points  []string
		raw     []string
	}{
		{
			name:    "two_waypoints",
			content: twoWaypoints,
			points: []string{
				"waypoints.0.anchor.x", "waypoints.0.anchor.y",
				"waypoints.0.prevControl.x", "waypoints.0.prevControl.y",
				"waypoints.0.nextControl.x", "waypoints.0.nextControl.y",
				"waypoints.1.anchor.x", "waypoints.1.anchor.y",
				"waypoints.1.prevControl.x", "waypoints.1.prevControl.y",
			},
			raw: []string{"waypoints.0.linkedName", "waypoints.1.isLocked", "goalEndState.velocity"},
		},
		{
			name:    "a1",
			content: a1Path,
			points: []string{
				"waypoints.0.anchor.x", "waypoints.0.anchor.y",
				"waypoints.0.nextControl.x", "waypoints.0.nextControl.y",
			},
			raw: []string{
				"version", "eventMarkers", "globalConstraints", "goalEndState.rotateFast",
				"reversed", "folder", "previewStartingState", "useDefaultConstraints",
			},
		},
	}
	tests := []struct {
		name     string
		distance float64
		sideways bool
	}{
		{name: "forward", distance: 2.5},
		{name: "sideways", distance: 2.5, sideways: true},
		{name: "backward", distance: -0.75},
		{name: "zero", distance: 0},
	}

	for _, fx := range fixtures {
		for _, tt := range tests {
			t.Run(fx.name+"_"+tt.name, func(t *testing.T) {
				ctx := testContext(t)
				dir := writeFiles(t, map[string]string{"p.path": fx.content})

				require.NoError(t, run(t, ctx, operation.Options{Directory: dir, Targets: []string{"p"}, Distance: tt.distance, Sideways: tt.sideways}))
				require.NoError(t, run(t, ctx, operation.Options{Directory: dir, Targets: []string{"p"}, Distance: -tt.distance, Sideways: tt.sideways}))

				got := readFile(t, filepath.Join(dir, "p.path"))
				for _, path := range fx.points {
					assert.InDelta(t, gjson.Get(fx.content, path).Num, gjson.Get(got, path).Num, 1e-9, path)
				}
				for _, path := range fx.raw {
					assert.Equal(t, compact(t, gjson.Get(fx.content, path).Raw), compact(t, gjson.Get(got, path).Raw), "raw %s", path)
				}
			})
		}
	}
}

// 🧪 TestShiftIsNotIdempotent checks reruns compound
func TestShiftIsNotIdempotent(t *testing.T) {
	ctx := testContext(t)
	dir := writeFiles(t, map[string]string{"a1.path": a1Path})
	opts := operation.Options{Directory: dir, Targets: []string{"a1"}, Distance: 2.0}

	require.NoError(t, run(t, ctx, opts))
	require.NoError(t, run(t, ctx, opts))

	got := readFile(t, filepath.Join(dir, "a1.path"))
	assert.InDelta(t, 6.0, gjson.Get(got, "waypoints.0.anchor.y").Num, 1e-9)
	assert.InDelta(t, 8.0, gjson.Get(got, "waypoints.0.nextControl.y").Num, 1e-9)
}

// 🧪 TestShiftFailsFast checks a malformed file stops the batch
func TestShiftFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "not_json", content: `{"waypoints": [`, message: "not valid JSON"},
		{name: "missing_rotation", content: `{"waypoints": [], "goalEndState": {"velocity": 0}}`, message: "missing rotation"},
		{name: "missing_anchor", content: `{"waypoints": [{"nextControl": null}], "goalEndState": {"rotation": 0}}`, message: "missing anchor"},
		{name: "array_root", content: `[]`, message: "top level is not an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := writeFiles(t, map[string]string{
				"a1.path": a1Path,
				"a2.path": tt.content,
				"a3.path": a1Path,
			})
			mgr := status.NewManager(nil)

			err := run(t, ctx, operation.Options{
				Directory: dir,
				Targets:   []string{"a"},
				Distance:  2.0,
				StatusMgr: mgr,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errcode.ErrMalformedDocument), "got %v", err)
			assert.Equal(t, filepath.Join(dir, "a2.path"), errcode.PathOf(err))
			assert.Contains(t, err.Error(), tt.message)

			assert.InDelta(t, 4.0, gjson.Get(readFile(t, filepath.Join(dir, "a1.path")), "waypoints.0.anchor.y").Num, 1e-9,
				"files before the failure stay shifted")
			assert.Equal(t, tt.content, readFile(t, filepath.Join(dir, "a2.path")))
			assert.Equal(t, a1Path, readFile(t, filepath.Join(dir, "a3.path")), "files after the failure are untouched")

			assert.Equal(t, 1, mgr.Count(status.StatusShifted))
			assert.Equal(t, 1, mgr.Count(status.StatusFailed))
			processed, total := mgr.Progress()
			assert.Equal(t, 1, processed)
			assert.Equal(t, 3, total)
		})
	}
}

// 🧪 TestShiftNonFiniteResult checks an out-of-range heading is reported, not written
func TestShiftNonFiniteResult(t *testing.T) {
	ctx := testContext(t)
	content := `{"waypoints": [{"anchor": {"x": 1, "y": 1}}], "goalEndState": {"rotation": 1e400}}`
	dir := writeFiles(t, map[string]string{"inf.path": content})

	err := run(t, ctx, operation.Options{Directory: dir, Targets: []string{"inf"}, Distance: 1})
	require.Error(t, err)
	assert.True(t, errcode.Has(err, errcode.MalformedDocument))
	assert.Equal(t, content, readFile(t, filepath.Join(dir, "inf.path")))
}

// 🧪 TestShiftNoMatchingFiles checks an empty selection is an error
func TestShiftNoMatchingFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		targets []string
		ignore  []string
	}{
		{name: "empty_directory", files: map[string]string{}, targets: []string{"a"}},
		{name: "no_prefix_match", files: map[string]string{"b1.path": a1Path}, targets: []string{"a", "c"}},
		{name: "all_ignored", files: map[string]string{"a1.path": a1Path}, targets: []string{"a"}, ignore: []string{"*.path"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := writeFiles(t, tt.files)

			err := run(t, ctx, operation.Options{Directory: dir, Targets: tt.targets, Ignore: tt.ignore, Distance: 1})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errcode.ErrNoMatchingFiles), "got %v", err)
		})
	}
}

// 🧪 TestDryRunLeavesFilesAlone checks a dry run reports without writing
func TestDryRunLeavesFilesAlone(t *testing.T) {
	ctx := testContext(t)
	dir := writeFiles(t, map[string]string{"a1.path": a1Path})
	mgr := status.NewManager(nil)

	err := run(t, ctx, operation.Options{
		Directory: dir,
		Targets:   []string{"a"},
		Distance:  2.0,
		DryRun:    true,
		StatusMgr: mgr,
	})
	require.NoError(t, err)

	assert.Equal(t, a1Path, readFile(t, filepath.Join(dir, "a1.path")))

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 1)
	assert.Equal(t, status.StatusPreview, files[0].Status)
	assert.InDelta(t, 2.0, files[0].DeltaY, 1e-9)
	assert.Equal(t, 90.0, files[0].Heading)
	assert.Empty(t, files[0].Checksum, "nothing was written")
}

// 🧪 TestBackup checks the original bytes are kept and backups are never shifted
func TestBackup(t *testing.T) {
	ctx := testContext(t)
	dir := writeFiles(t, map[string]string{"a1.path": a1Path})
	path := filepath.Join(dir, "a1.path")
	opts := operation.Options{Directory: dir, Targets: []string{"a"}, Distance: 2.0, Backup: true}

	require.NoError(t, run(t, ctx, opts))
	assert.Equal(t, a1Path, readFile(t, path+".bak"))
	first := readFile(t, path)

	// a1.path.bak matches the "a" prefix but must not be selected
	require.NoError(t, run(t, ctx, opts))
	assert.Equal(t, first, readFile(t, path+".bak"), "second backup holds the first run's output")
	assert.InDelta(t, 6.0, gjson.Get(readFile(t, path), "waypoints.0.anchor.y").Num, 1e-9)
}

// 🧪 TestBackupSkipsStaleTempFiles checks an interrupted backup write is never
// selected, even by a prefix that matches hidden files
func TestBackupSkipsStaleTempFiles(t *testing.T) {
	ctx := testContext(t)
	stale := ".a1.path.bak.123456.tmp"
	dir := writeFiles(t, map[string]string{
		"a1.path": a1Path,
		stale:     `{"waypoints": [`,
	})
	opts := operation.Options{Directory: dir, Targets: []string{"a", "."}, Distance: 2.0, Backup: true}

	require.NoError(t, run(t, ctx, opts))
	assert.InDelta(t, 4.0, gjson.Get(readFile(t, filepath.Join(dir, "a1.path")), "waypoints.0.anchor.y").Num, 1e-9)
	assert.Equal(t, `{"waypoints": [`, readFile(t, filepath.Join(dir, stale)))

	summaries, err := operation.Inspect(ctx, opts)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "a1.path", summaries[0].Name)

	// without backups the stale file is an ordinary match
	opts.Backup = false
	err = run(t, ctx, opts)
	require.Error(t, err)
	assert.True(t, errcode.Has(err, errcode.MalformedDocument))
}

// 🧪 TestCancelledContextStopsBeforeFiles checks ctx is honored between files
func TestCancelledContextStopsBeforeFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()
	dir := writeFiles(t, map[string]string{"a1.path": a1Path})

	err := run(t, ctx, operation.Options{Directory: dir, Targets: []string{"a"}, Distance: 2.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, a1Path, readFile(t, filepath.Join(dir, "a1.path")))
}

// 🧪 TestShiftOperationConsole checks one console line per file
func TestShiftOperationConsole(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := testContext(t)
	dir := writeFiles(t, map[string]string{"a1.path": a1Path, "a2.path": a1Path})
	buf := &bytes.Buffer{}

	err := run(t, ctx, operation.Options{
		Directory: dir,
		Targets:   []string{"a"},
		Distance:  2.0,
		Console:   log.NewWithLogger(buf, zerolog.New(zerolog.NewTestWriter(t))),
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[shifting "+dir+"]", lines[0])
	assert.Equal(t, "◆ a • 2 forward", lines[1])
	assert.Contains(t, lines[2], filepath.Join(dir, "a1.path"))
	assert.Contains(t, lines[2], "(+0.000, +2.000)")
	assert.Contains(t, lines[2], "shifted")
	assert.Contains(t, lines[3], filepath.Join(dir, "a2.path"))
}

// 🧪 TestShiftFile checks the single-file entry point rewrites through the handle
func TestShiftFile(t *testing.T) {
	tests := []struct {
		name       string
		fopts      operation.FileOptions
		wantWrite  bool
		wantBackup bool
	}{
		{name: "rewrite", wantWrite: true},
		{name: "backup", fopts: operation.FileOptions{Backup: true}, wantWrite: true, wantBackup: true},
		{name: "dry_run", fopts: operation.FileOptions{DryRun: true, Backup: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := writeFiles(t, map[string]string{"a1.path": a1Path})
			path := filepath.Join(dir, "a1.path")

			targets, err := selector.Select(ctx, dir, []string{"a1"})
			require.NoError(t, err)
			defer targets.Close()

			res, err := operation.ShiftFile(ctx, status.NewManager(nil), targets[0], 1.0, true, tt.fopts)
			require.NoError(t, err)

			// heading 90 sideways is 180: straight back along -x
			assert.InDelta(t, -1.0, res.Delta.X, 1e-9)
			assert.InDelta(t, 0.0, res.Delta.Y, 1e-9)

			if tt.wantWrite {
				assert.Equal(t, string(res.Content), readFile(t, path))
			} else {
				assert.Equal(t, a1Path, readFile(t, path))
			}

			if tt.wantBackup {
				assert.Equal(t, path+status.BackupSuffix, res.Backup)
				assert.Equal(t, a1Path, readFile(t, res.Backup))
			} else {
				assert.Empty(t, res.Backup)
				assert.NoFileExists(t, path+status.BackupSuffix)
			}
		})
	}
}
