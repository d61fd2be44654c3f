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

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/walteh/pathshift/cmd/pathshift/opts"
	"github.com/walteh/pathshift/pkg/errcode"
)

func main() {
	// Interrupts stop the run before the next file
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(&opts.RootOpts{}, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := zerolog.Ctx(rootCmd.Context())
		if logger.GetLevel() == zerolog.Disabled {
			l := setupLogging(os.Stderr, false)
			logger = &l
		}
		logger.Error().
			Err(err).
			Str("code", string(errcode.CodeOf(err))).
			Str("file", errcode.PathOf(err)).
			Msg("pathshift failed")
		stop()
		os.Exit(1)
	}
}
