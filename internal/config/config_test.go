// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
	"github.com/cloudwego/idl2sdk/internal/transpile"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "none.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing required file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "none.yaml"), true)
		assert.Error(t, err)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(dir, DefaultFile)
		require.NoError(t, os.WriteFile(path, []byte("source: ./target/idl/counter.json\nformat: cjs\nverbose: true\n"), 0o644))
		cfg, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "./target/idl/counter.json", cfg.Source)
		assert.Equal(t, "cjs", cfg.Format)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "./sdk-js", cfg.OutputDir)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("source: [\n"), 0o644))
		_, err := Load(path, true)
		assert.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.Format = "cjs" // as if from the file
	e := env.New("/w", "linux", map[string]string{
		"IDL2SDK_OUTPUT_DIR": "./dist",
		"IDL2SDK_FORMAT":     "esm",
		"IDL2SDK_VERBOSE":    "1",
		"IDL2SDK_DEBOUNCE":   "1s",
		"UNRELATED":          "x",
	})
	require.NoError(t, cfg.ApplyEnv(e))

	assert.Equal(t, "./dist", cfg.OutputDir)
	assert.Equal(t, "esm", cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "./idl.json", cfg.Source)
	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	bad := env.New("/w", "linux", map[string]string{"IDL2SDK_STRICT": "maybe"})
	assert.Error(t, Default().ApplyEnv(bad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"no source", func(c *Config) { c.Source = " " }, false},
		{"no temp dir", func(c *Config) { c.TempDir = "" }, false},
		{"no output dir", func(c *Config) { c.OutputDir = "" }, false},
		{"blank program id", func(c *Config) { c.ProgramID = "  " }, false},
		{"bad format", func(c *Config) { c.Format = "umd" }, false},
		{"upper-case format", func(c *Config) { c.Format = "CJS" }, true},
		{"empty format means esm", func(c *Config) { c.Format = "" }, true},
		{"bad debounce", func(c *Config) { c.Debounce = "soon" }, false},
		{"negative debounce", func(c *Config) { c.Debounce = "-1s" }, false},
		{"unknown target is left to the transpiler", func(c *Config) { c.Target = "es1999" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestToRequest(t *testing.T) {
	cfg := Default()
	cfg.ProgramID = " Prog111 "
	cfg.Format = "cjs"
	cfg.Verbose = true

	assert.Equal(t, pipeline.Request{
		SourcePath: "./idl.json",
		ProgramID:  "Prog111",
		TempDir:    "./.tmp-ts",
		OutputDir:  "./sdk-js",
		Format:     transpile.FormatCJS,
		Target:     "es2022",
		Verbose:    true,
	}, cfg.ToRequest())
}

func TestToRequest_EmptyFormat(t *testing.T) {
	cfg := Default()
	cfg.Format = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, transpile.FormatESM, cfg.ToRequest().Format)
}

func TestJSONSchema(t *testing.T) {
	raw, err := JSONSchema()
	require.NoError(t, err)

	var schema struct {
		Properties map[string]struct {
			Description string        `json:"description"`
			Enum        []interface{} `json:"enum"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(raw, &schema))
	for _, key := range []string{"source", "program_id", "temp_dir", "output_dir", "format", "target", "verbose", "strict", "debounce"} {
		prop, ok := schema.Properties[key]
		if assert.True(t, ok, "missing %s", key) {
			assert.NotEmpty(t, prop.Description, key)
		}
	}
	assert.ElementsMatch(t, []interface{}{"esm", "cjs"}, schema.Properties["format"].Enum)
}
