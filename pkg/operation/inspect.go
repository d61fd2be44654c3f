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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/pathfile"
	"github.com/walteh/pathshift/pkg/selector"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Summary describes a path file a shift would touch
type Summary struct {
	Name      string
	Path      string
	Heading   float64
	Waypoints int
	Err       error // set when the file would abort a shift
}

// Inspect lists the files a shift with the same options would select, read
// only. A file that cannot be read or parsed is reported in its Summary
// rather than failing the listing.
func Inspect(ctx context.Context, opts Options) ([]Summary, error) {
	base := NewBaseOperation(opts)

	names, err := selector.Match(base.Directory, base.Targets, base.ignorePatterns())
	if err != nil {
		return nil, errors.Errorf("matching path files: %w", err)
	}

	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		path := filepath.Join(base.Directory, name)
		s := Summary{Name: name, Path: path}

		data, err := os.ReadFile(path)
		if err != nil {
			s.Err = errcode.Wrap(err, errcode.IO, path, "reading file")
		} else if doc, err := pathfile.Parse(data, path); err != nil {
			s.Err = err
		} else {
			s.Heading = doc.Heading()
			s.Waypoints = len(doc.Waypoints)
		}

		if s.Err != nil {
			zerolog.Ctx(ctx).Warn().Str("file", path).Err(s.Err).Msg("path file would not shift")
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
