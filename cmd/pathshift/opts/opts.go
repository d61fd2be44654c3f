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

package opts

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/pathshift/pkg/config"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Directory  string
	Ignore     []string
	Debug      bool

	// Getenv reads the environment; os.Getenv when nil
	Getenv func(string) string
}

// Resolve builds the run configuration: config file, then FOLDER_FILEPATH,
// then --dir, then positional args.
func (o *RootOpts) Resolve(ctx context.Context, args []string, requireAmount bool) (*config.Config, error) {
	cfg := &config.Config{}
	if o.ConfigFile != "" {
		loaded, err := config.Load(ctx, o.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	getenv := o.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.ApplyEnv(getenv)

	if o.Directory != "" {
		cfg.Directory = o.Directory
	}
	cfg.ApplyArgs(ctx, args)
	cfg.Ignore = append(cfg.Ignore, o.Ignore...)

	if err := cfg.Validate(requireAmount); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("resolved configuration")
	return cfg, nil
}
