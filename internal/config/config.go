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

// Package config loads run settings from defaults, an optional YAML file,
// IDL2SDK_* environment variables and finally command-line flags, in that
// order of precedence.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
	"github.com/cloudwego/idl2sdk/internal/transpile"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "idl2sdk.yaml"

const EnvPrefix = "IDL2SDK_"

// Config mirrors the YAML file.
type Config struct {
	Source    string `yaml:"source" json:"source,omitempty" jsonschema:"description=path to the Anchor IDL JSON file,default=./idl.json"`
	ProgramID string `yaml:"program_id" json:"program_id,omitempty" jsonschema:"description=program id passed to the generator; read from the IDL when empty"`
	TempDir   string `yaml:"temp_dir" json:"temp_dir,omitempty" jsonschema:"description=scratch directory for generated TypeScript; cleared before and removed after each run,default=./.tmp-ts"`
	OutputDir string `yaml:"output_dir" json:"output_dir,omitempty" jsonschema:"description=directory that receives the compiled JavaScript; cleared before each run,default=./sdk-js"`
	Format    string `yaml:"format" json:"format,omitempty" jsonschema:"description=module format of the emitted JavaScript,enum=esm,enum=cjs,default=esm"`
	Target    string `yaml:"target" json:"target,omitempty" jsonschema:"description=ECMAScript language target such as es2020 or esnext,default=es2022"`
	Verbose   bool   `yaml:"verbose" json:"verbose,omitempty" jsonschema:"description=stream generator output instead of capturing it"`
	Strict    bool   `yaml:"strict" json:"strict,omitempty" jsonschema:"description=fail the run when a normally tolerated step fails"`
	Debounce  string `yaml:"debounce" json:"debounce,omitempty" jsonschema:"description=quiet period before watch mode regenerates (Go duration),default=300ms"`
}

func Default() *Config {
	return &Config{
		Source:    "./idl.json",
		TempDir:   "./.tmp-ts",
		OutputDir: "./sdk-js",
		Format:    string(transpile.FormatESM),
		Target:    transpile.DefaultTarget,
		Debounce:  "300ms",
	}
}

// Load returns the defaults overlaid with the YAML file at path. A missing
// file is only an error when mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from IDL2SDK_* variables that are set.
func (c *Config) ApplyEnv(e *env.Environment) error {
	strs := map[string]*string{
		"SOURCE":     &c.Source,
		"PROGRAM_ID": &c.ProgramID,
		"TEMP_DIR":   &c.TempDir,
		"OUTPUT_DIR": &c.OutputDir,
		"FORMAT":     &c.Format,
		"TARGET":     &c.Target,
		"DEBOUNCE":   &c.Debounce,
	}
	for key, field := range strs {
		if v, ok := e.LookupEnv(EnvPrefix + key); ok {
			*field = v
		}
	}
	bools := map[string]*bool{
		"VERBOSE": &c.Verbose,
		"STRICT":  &c.Strict,
	}
	for key, field := range bools {
		v, ok := e.LookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Errorf("%s%s: %q is not a boolean", EnvPrefix, key, v)
		}
		*field = b
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source is required")
	}
	if strings.TrimSpace(c.TempDir) == "" {
		return errors.New("temp_dir is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output_dir is required")
	}
	if c.ProgramID != "" && strings.TrimSpace(c.ProgramID) == "" {
		return errors.New("program_id is blank")
	}
	if _, err := transpile.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// DebounceDuration parses Debounce; empty means zero.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0, errors.Wrap(err, "debounce")
	}
	if d < 0 {
		return 0, errors.Errorf("debounce %s is negative", c.Debounce)
	}
	return d, nil
}

// ToRequest converts a validated Config into a pipeline request.
func (c *Config) ToRequest() pipeline.Request {
	format, _ := transpile.ParseFormat(c.Format)
	return pipeline.Request{
		SourcePath: c.Source,
		ProgramID:  strings.TrimSpace(c.ProgramID),
		TempDir:    c.TempDir,
		OutputDir:  c.OutputDir,
		Format:     format,
		Target:     c.Target,
		Verbose:    c.Verbose,
	}
}

// JSONSchema describes the config file.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.Reflect(&Config{})
	s.Title = "idl2sdk configuration"
	return json.MarshalIndent(s, "", "  ")
}
