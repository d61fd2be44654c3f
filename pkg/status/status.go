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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/selector"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the outcome for one path file in a run
type FileStatus int

const (
	StatusUnknown FileStatus = iota
	StatusShifted            // rewritten in place
	StatusPreview            // delta computed, file left alone
	StatusFailed             // aborted the run
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusShifted:
		return "shifted"
	case StatusPreview:
		return "dry-run"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo records what happened to a path file
type FileInfo struct {
	Path      string     // path of the file
	Status    FileStatus // outcome
	Heading   float64    // goalEndState.rotation in degrees
	DeltaX    float64    // applied x translation
	DeltaY    float64    // applied y translation
	Waypoints int        // number of waypoints moved
	Size      int64      // bytes written
	Checksum  string     // sha256 of the written content
	Backup    string     // backup path, when one was written
	Error     error      // failure, when Status is StatusFailed
}

// 💾 FileManager performs the in-place file operations of a run
type FileManager interface {
	ReadAll(ctx context.Context, target *selector.Target) ([]byte, error)
	Rewrite(ctx context.Context, target *selector.Target, content []byte) error
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string, content []byte) (string, error)
}

// 📈 StatusReporter tracks file outcomes and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter. A run is
// sequential, so Manager is not safe for concurrent use.
type Manager struct {
	formatter FileFormatter

	files map[string]FileInfo
	order []string

	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 NewManager creates a status manager
func NewManager(formatter FileFormatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		formatter: formatter,
		files:     make(map[string]FileInfo),
	}
}

// 🔍 calculateChecksum generates a SHA-256 hash of the content
func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

// ReadAll reads the whole target from the start so nothing is written back
// over content still being read.
func (m *Manager) ReadAll(ctx context.Context, target *selector.Target) ([]byte, error) {
	if _, err := target.File.Seek(0, io.SeekStart); err != nil {
		return nil, errcode.Wrap(err, errcode.IO, target.Path, "seeking to start")
	}
	content, err := io.ReadAll(target.File)
	if err != nil {
		return nil, errcode.Wrap(err, errcode.IO, target.Path, "reading file")
	}
	return content, nil
}

// Rewrite replaces the target's whole content through the open handle:
// rewind, truncate, write, sync.
func (m *Manager) Rewrite(ctx context.Context, target *selector.Target, content []byte) error {
	if _, err := target.File.Seek(0, io.SeekStart); err != nil {
		return errcode.Wrap(err, errcode.IO, target.Path, "seeking to start")
	}
	if err := target.Truncate(0); err != nil {
		return errcode.Wrap(err, errcode.IO, target.Path, "truncating file")
	}
	if _, err := target.File.Write(content); err != nil {
		return errcode.Wrap(err, errcode.IO, target.Path, "writing file")
	}
	if err := target.Sync(); err != nil {
		return errcode.Wrap(err, errcode.IO, target.Path, "syncing file")
	}
	return nil
}

// TempPattern matches the temp files WriteFileAtomic leaves behind if it is
// interrupted before the rename.
const TempPattern = ".*.tmp"

// tempPattern is the os.CreateTemp pattern for path's temp file.
func tempPattern(path string) string {
	return "." + filepath.Base(path) + ".*.tmp"
}

// WriteFileAtomic writes content to a hidden temp file next to path and
// renames it over path.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), tempPattern(path))
	if err != nil {
		return errcode.Wrap(err, errcode.IO, path, "creating temp file")
	}
	tempPath := temp.Name()

	// Write to temp file
	_, err = temp.Write(content)
	if cerr := temp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tempPath, 0644)
	}
	if err != nil {
		os.Remove(tempPath)
		return errcode.Wrap(err, errcode.IO, tempPath, "writing temp file")
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errcode.Wrap(err, errcode.IO, path, "renaming temp file")
	}

	return nil
}

// BackupFile saves content as path + ".bak", replacing an older backup.
func (m *Manager) BackupFile(ctx context.Context, path string, content []byte) (string, error) {
	backupPath := path + BackupSuffix
	if err := m.WriteFileAtomic(ctx, backupPath, content); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", path).Str("backup", backupPath).Msg("wrote backup")
	return backupPath, nil
}

// BackupSuffix is appended to a path file's name for its backup copy.
const BackupSuffix = ".bak"

// StatusReporter interface implementation

// TrackFile records info and logs it. Tracking a path again replaces its
// info but keeps its position.
func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	if _, ok := m.files[info.Path]; !ok {
		m.order = append(m.order, info.Path)
	}
	m.files[info.Path] = info

	logger := zerolog.Ctx(ctx)
	if info.Error != nil {
		logger.Error().Str("file", info.Path).Err(info.Error).Msg(m.formatter.FormatError(info.Error))
		return
	}
	logger.Info().
		Str("file", info.Path).
		Str("status", info.Status.String()).
		Float64("heading", info.Heading).
		Float64("dx", info.DeltaX).
		Float64("dy", info.DeltaY).
		Int("waypoints", info.Waypoints).
		Msg(m.formatter.FormatFileOperation(info))
}

// Written returns info updated with the size and checksum of content.
func Written(info FileInfo, content []byte) FileInfo {
	info.Size = int64(len(content))
	info.Checksum = calculateChecksum(content)
	return info
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns tracked files in the order they were first tracked.
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	files := make([]FileInfo, 0, len(m.order))
	for _, path := range m.order {
		files = append(files, m.files[path])
	}
	return files
}

// Count returns how many tracked files have status s.
func (m *Manager) Count(s FileStatus) int {
	n := 0
	for _, info := range m.files {
		if info.Status == s {
			n++
		}
	}
	return n
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

// FinishOperation reports how far the run got, which is short of the total
// when a file failed.
func (m *Manager) FinishOperation(ctx context.Context) {
	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Progress returns the processed and total counts.
func (m *Manager) Progress() (processed, total int) {
	return m.processed, m.total
}
