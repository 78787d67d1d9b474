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

// Package env carries the host facts (working directory, platform, environment
// variables) that the locator and the pipeline consult. Nothing below this
// package reads os.Getwd, os.Getenv or runtime.GOOS directly, so tests can
// substitute a whole environment.
package env

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Environment is a read-only snapshot of the host.
type Environment struct {
	WorkDir string
	GOOS    string
	Vars    map[string]string
}

// FromOS captures the current process environment.
func FromOS() (*Environment, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return &Environment{
		WorkDir: wd,
		GOOS:    runtime.GOOS,
		Vars:    vars,
	}, nil
}

// New builds an environment from explicit values. vars may be nil.
func New(workDir, goos string, vars map[string]string) *Environment {
	cp := make(map[string]string, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return &Environment{WorkDir: workDir, GOOS: goos, Vars: cp}
}

func (e *Environment) Getenv(key string) string {
	if e == nil {
		return ""
	}
	if v, ok := e.Vars[key]; ok {
		return v
	}
	if e.IsWindows() {
		// Windows variable names are case-insensitive.
		for k, v := range e.Vars {
			if strings.EqualFold(k, key) {
				return v
			}
		}
	}
	return ""
}

// LookupEnv reports whether key is set, even to the empty string.
func (e *Environment) LookupEnv(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.Vars[key]
	return v, ok
}

func (e *Environment) IsWindows() bool {
	return e != nil && e.GOOS == "windows"
}

// HomeDir mirrors os.UserHomeDir against the captured variables.
func (e *Environment) HomeDir() string {
	if e.IsWindows() {
		return e.Getenv("USERPROFILE")
	}
	return e.Getenv("HOME")
}

// Abs resolves p against WorkDir instead of the process cwd.
func (e *Environment) Abs(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(e.WorkDir, p)
}

// Environ renders the variables in KEY=VALUE form, sorted for stable output.
func (e *Environment) Environ() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.Vars))
	for k, v := range e.Vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// CommandEnv is the environment handed to child processes. An environment with
// no captured variables yields nil, so children inherit the process environment.
func (e *Environment) CommandEnv() []string {
	if e == nil || len(e.Vars) == 0 {
		return nil
	}
	return e.Environ()
}

// LoadDotEnv adds the variables of a dotenv file (resolved against WorkDir)
// that are not already set. A missing file is not an error.
func (e *Environment) LoadDotEnv(path string) error {
	vars, err := godotenv.Read(e.Abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if e.Vars == nil {
		e.Vars = make(map[string]string, len(vars))
	}
	for k, v := range vars {
		if _, ok := e.Vars[k]; !ok {
			e.Vars[k] = v
		}
	}
	return nil
}

// With returns a copy with key set to value.
func (e *Environment) With(key, value string) *Environment {
	out := New(e.WorkDir, e.GOOS, e.Vars)
	out.Vars[key] = value
	return out
}

// MergeEnv merges KEY=VALUE pairs into base. Later values override earlier ones.
func MergeEnv(base []string, additional ...string) []string {
	result := make([]string, len(base))
	copy(result, base)
	for _, add := range additional {
		key, value, ok := strings.Cut(add, "=")
		if !ok {
			continue
		}
		result = setEnvKey(result, key, value)
	}
	return result
}

func setEnvKey(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
