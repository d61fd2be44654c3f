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

package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/pathshift/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "pathshift-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configPath := filepath.Join(dir, "pathshift.yaml")
	configYAML := `
targets: [a, b]
amount: 0.5
ignore: ["*.bak"]
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	// positional arguments win over the file
	cfg.ApplyArgs(ctx, []string{"a1, c", "2"})

	fmt.Printf("targets: %v\n", cfg.Targets)
	fmt.Printf("amount: %g\n", cfg.Distance())
	fmt.Printf("ignore: %v\n", cfg.Ignore)

	// Output:
	// targets: [a1 c]
	// amount: 2
	// ignore: [*.bak]
}
