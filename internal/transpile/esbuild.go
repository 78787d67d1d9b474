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

package transpile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/log"
)

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es6":    api.ES2015,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

// Esbuild compiles in process with esbuild's Go API.
type Esbuild struct{}

func NewEsbuild() *Esbuild { return &Esbuild{} }

func (Esbuild) Transpile(ctx context.Context, opts Options) ([]string, error) {
	if len(opts.Files) == 0 {
		return nil, nil
	}
	if opts.OutDir == "" {
		return nil, errors.New("output directory is required")
	}
	format, err := esbuildFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(opts.Target))
	if name == "" {
		name = DefaultTarget
	}
	target, ok := targets[name]
	if !ok {
		return nil, fmt.Errorf("unsupported target %q (supported: %s)", opts.Target, strings.Join(SupportedTargets(), ", "))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := opts.BaseDir
	if base == "" {
		base = commonDir(opts.Files)
	}

	log.Debug("esbuild: %d file(s) -> %s (format=%s, target=%s)", len(opts.Files), opts.OutDir, opts.Format, opts.Target)
	result := api.Build(api.BuildOptions{
		EntryPoints: opts.Files,
		Outdir:      opts.OutDir,
		Outbase:     base,
		Bundle:      false,
		Write:       false,
		Format:      format,
		Target:      target,
		LogLevel:    api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, &DiagnosticsError{Diagnostics: convertMessages(result.Errors)}
	}
	for _, w := range result.Warnings {
		log.Warn("esbuild: %s", convertMessage(w).String())
	}

	written := make([]string, 0, len(result.OutputFiles))
	for _, f := range result.OutputFiles {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return written, errors.Wrap(err, "create output directory")
		}
		if err := os.WriteFile(f.Path, f.Contents, 0o644); err != nil {
			return written, errors.Wrapf(err, "write %s", f.Path)
		}
		written = append(written, f.Path)
	}
	sort.Strings(written)
	if len(written) != len(opts.Files) {
		return written, fmt.Errorf("compiler emitted %d file(s) for %d input(s)", len(written), len(opts.Files))
	}
	return written, nil
}

func esbuildFormat(f Format) (api.Format, error) {
	switch f {
	case FormatESM, "":
		return api.FormatESModule, nil
	case FormatCJS:
		return api.FormatCommonJS, nil
	default:
		return api.FormatDefault, fmt.Errorf("unsupported module format %q", f)
	}
}

func convertMessages(msgs []api.Message) []Diagnostic {
	out := make([]Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, convertMessage(m))
	}
	return out
}

func convertMessage(m api.Message) Diagnostic {
	d := Diagnostic{Text: m.Text}
	if m.Location != nil {
		d.File = m.Location.File
		d.Line = m.Location.Line
		d.Column = m.Location.Column
	}
	return d
}

func commonDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	dir := filepath.Dir(files[0])
	for _, f := range files[1:] {
		for !strings.HasPrefix(filepath.Dir(f)+string(filepath.Separator), dir+string(filepath.Separator)) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}
