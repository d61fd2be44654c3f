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

// Package selector picks the path files a run will rewrite.
package selector

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/pathshift/pkg/errcode"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Target is a selected file, open for reading and writing
type Target struct {
	Name string // base name
	Path string // dir joined with Name
	File io.ReadWriteSeeker
}

// Truncate cuts the target's file to size bytes.
func (t *Target) Truncate(size int64) error {
	f, ok := t.File.(interface{ Truncate(int64) error })
	if !ok {
		return errors.Errorf("%s cannot be truncated", t.Path)
	}
	return f.Truncate(size)
}

// Sync flushes the target's file to stable storage when supported.
func (t *Target) Sync() error {
	if f, ok := t.File.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// Close closes the underlying handle when it is closable.
func (t *Target) Close() error {
	if c, ok := t.File.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Targets is the result of a selection.
type Targets []*Target

// Names returns the selected base names in selection order.
func (ts Targets) Names() []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Close closes every handle and returns the first error.
func (ts Targets) Close() error {
	var first error
	for _, t := range ts {
		if err := t.Close(); err != nil && first == nil {
			first = errcode.Wrap(err, errcode.IO, t.Path, "closing file")
		}
	}
	return first
}

type options struct {
	ignore []string
	open   func(path string) (io.ReadWriteSeeker, error)
}

// Option tweaks a selection.
type Option func(*options)

// WithIgnore drops files whose name matches any of the doublestar patterns.
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}

// WithOpener replaces how selected files are opened.
func WithOpener(open func(path string) (io.ReadWriteSeeker, error)) Option {
	return func(o *options) {
		o.open = open
	}
}

func openReadWrite(path string) (io.ReadWriteSeeker, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ValidatePatterns checks that every ignore pattern is a valid glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errcode.Newf(errcode.Configuration, "", "invalid ignore pattern %q", p)
		}
	}
	return nil
}

// 🔍 Select lists dir (not recursively) and opens every regular file whose
// name starts with one of prefixes. Symlinks and directories are skipped.
// Nothing selected is an errcode.NoMatchingFiles error; a file that cannot be
// opened aborts the selection and closes what was already opened.
func Select(ctx context.Context, dir string, prefixes []string, opts ...Option) (Targets, error) {
	logger := zerolog.Ctx(ctx)

	o := options{open: openReadWrite}
	for _, opt := range opts {
		opt(&o)
	}

	names, err := Match(dir, prefixes, o.ignore)
	if err != nil {
		return nil, err
	}

	targets := make(Targets, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		f, err := o.open(path)
		if err != nil {
			_ = targets.Close()
			return nil, errcode.Wrap(err, errcode.IO, path, "opening file for read-write")
		}
		logger.Debug().Str("file", path).Msg("selected path file")
		targets = append(targets, &Target{Name: name, Path: path, File: f})
	}

	return targets, nil
}

// Match returns the names Select would open, without opening them.
func Match(dir string, prefixes []string, ignore []string) ([]string, error) {
	if err := ValidatePatterns(ignore); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errcode.Wrap(err, errcode.IO, dir, "listing directory")
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !hasAnyPrefix(name, prefixes) {
			continue
		}
		if ignored(name, ignore) {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, errcode.New(errcode.NoMatchingFiles, dir, "no path files match the input strings")
	}
	return names, nil
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ignored reports whether name matches an ignore pattern. Match validates
// patterns first, so doublestar cannot fail here.
func ignored(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
