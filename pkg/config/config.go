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

package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/walteh/pathshift/pkg/errcode"
	"github.com/walteh/pathshift/pkg/log"
	"github.com/walteh/pathshift/pkg/selector"
)

// DirectoryEnv names the environment variable holding the paths directory.
const DirectoryEnv = "FOLDER_FILEPATH"

// 📚 Config represents the complete configuration of a shift run
type Config struct {
	Directory string   `json:"directory,omitempty" yaml:"directory,omitempty"`
	Targets   []string `json:"targets,omitempty" yaml:"targets,omitempty"`
	Amount    *float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Sideways  bool     `json:"sideways,omitempty" yaml:"sideways,omitempty"`
	Ignore    []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Backup    bool     `json:"backup,omitempty" yaml:"backup,omitempty"`
	DryRun    bool     `json:"-" yaml:"-"`
}

// ParseTargets splits a comma-separated prefix list. Segments are trimmed and
// empty ones dropped.
func ParseTargets(s string) []string {
	var targets []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			targets = append(targets, part)
		}
	}
	return targets
}

// ParseAmount reads the shift distance. Text that is not a plain decimal
// number counts as zero, including padded text and hex or underscore forms.
func ParseAmount(ctx context.Context, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !decimal(s) {
		log.FromContext(ctx).Warningf("amount %q is not a number, using 0", s)
		return 0
	}
	return v
}

// decimal rejects the non-decimal spellings strconv.ParseFloat accepts.
func decimal(s string) bool {
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	return !strings.HasPrefix(lower, "0x") && !strings.Contains(s, "_")
}

// ParseSideways reads the sideways flag. Only the exact text "true" is true.
func ParseSideways(s string) bool {
	return s == "true"
}

// 🌍 ApplyEnv overrides the directory from FOLDER_FILEPATH when it is set.
func (cfg *Config) ApplyEnv(getenv func(string) string) {
	if dir := getenv(DirectoryEnv); dir != "" {
		cfg.Directory = dir
	}
}

// 🎯 ApplyArgs overrides values from positional arguments:
// targets, amount, sideways. Missing arguments leave the current value.
func (cfg *Config) ApplyArgs(ctx context.Context, args []string) {
	if len(args) > 0 {
		cfg.Targets = ParseTargets(args[0])
	}
	if len(args) > 1 {
		amount := ParseAmount(ctx, args[1])
		cfg.Amount = &amount
	}
	if len(args) > 2 {
		cfg.Sideways = ParseSideways(args[2])
	}
}

// 🔍 Validate checks the configuration can drive a run. requireAmount is
// false for read-only listings.
func (cfg *Config) Validate(requireAmount bool) error {
	if cfg.Directory == "" {
		return errcode.Newf(errcode.Configuration, "", "no directory given: use --dir, %s or a config file", DirectoryEnv)
	}
	cfg.Directory = filepath.Clean(cfg.Directory)

	info, err := os.Stat(cfg.Directory)
	if err != nil {
		return errcode.Wrap(err, errcode.Configuration, cfg.Directory, "checking directory")
	}
	if !info.IsDir() {
		return errcode.New(errcode.Configuration, cfg.Directory, "not a directory")
	}

	if len(cfg.Targets) == 0 {
		return errcode.New(errcode.Configuration, "", "no targets given")
	}

	if requireAmount {
		if cfg.Amount == nil {
			return errcode.New(errcode.Configuration, "", "no amount given")
		}
		if math.IsNaN(*cfg.Amount) || math.IsInf(*cfg.Amount, 0) {
			return errcode.Newf(errcode.Configuration, "", "amount %v is not finite", *cfg.Amount)
		}
	}

	return selector.ValidatePatterns(cfg.Ignore)
}

// Distance returns the amount, or zero when none was given.
func (cfg *Config) Distance() float64 {
	if cfg.Amount == nil {
		return 0
	}
	return *cfg.Amount
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	direction := "forward"
	if cfg.Sideways {
		direction = "sideways"
	}
	return fmt.Sprintf("%s[%s] %g %s", cfg.Directory, strings.Join(cfg.Targets, ","), cfg.Distance(), direction)
}
