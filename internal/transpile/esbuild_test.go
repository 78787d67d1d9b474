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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTS(t *testing.T, dir, rel, body string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEsbuild_OneOutputPerInput(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	files := []string{
		writeTS(t, src, "a.ts", "export const a: number = 1\n"),
		writeTS(t, src, "b.ts", "import { a } from \"./a\"\nexport function b(x: number): number { return x + a }\n"),
		writeTS(t, src, "accounts/Counter.ts", "export interface Counter { count: number }\nexport class CounterAccount { constructor(readonly count: number) {} }\n"),
	}

	got, err := NewEsbuild().Transpile(context.Background(), Options{
		Files: files, BaseDir: src, OutDir: out, Format: FormatCJS, Target: "es2022",
	})
	require.NoError(t, err)

	want := []string{
		filepath.Join(out, "a.js"),
		filepath.Join(out, "accounts", "Counter.js"),
		filepath.Join(out, "b.js"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}

	b, err := os.ReadFile(filepath.Join(out, "b.js"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "require(\"./a\")", "imports must stay external without bundling")
	assert.Contains(t, string(b), "module.exports")
	assert.NotContains(t, string(b), ": number")
}

func TestEsbuild_ESM(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	file := writeTS(t, src, "index.ts", "export * from \"./program\"\n")

	_, err := NewEsbuild().Transpile(context.Background(), Options{
		Files: []string{file}, BaseDir: src, OutDir: out, Format: FormatESM, Target: "esnext",
	})
	require.NoError(t, err)
	js, err := os.ReadFile(filepath.Join(out, "index.js"))
	require.NoError(t, err)
	assert.Contains(t, string(js), "export * from \"./program\"")
}

func TestEsbuild_SyntaxErrorIsDiagnostic(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	file := writeTS(t, src, "broken.ts", "export const x = {\n")

	_, err := NewEsbuild().Transpile(context.Background(), Options{
		Files: []string{file}, BaseDir: src, OutDir: out, Format: FormatESM, Target: DefaultTarget,
	})
	var diags *DiagnosticsError
	require.True(t, errors.As(err, &diags), "got %v", err)
	require.NotEmpty(t, diags.Diagnostics)
	assert.Contains(t, diags.Diagnostics[0].File, "broken.ts")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEsbuild_RecentAndAliasTargets(t *testing.T) {
	for _, target := range []string{"es2023", "ES2024", "es6"} {
		t.Run(target, func(t *testing.T) {
			src, out := t.TempDir(), t.TempDir()
			file := writeTS(t, src, "a.ts", "export const a: number = 1\n")
			got, err := NewEsbuild().Transpile(context.Background(), Options{
				Files: []string{file}, BaseDir: src, OutDir: out, Format: FormatESM, Target: target,
			})
			require.NoError(t, err)
			assert.Equal(t, []string{filepath.Join(out, "a.js")}, got)
		})
	}
}

func TestEsbuild_UnsupportedTarget(t *testing.T) {
	src := t.TempDir()
	file := writeTS(t, src, "a.ts", "export {}\n")
	_, err := NewEsbuild().Transpile(context.Background(), Options{
		Files: []string{file}, BaseDir: src, OutDir: t.TempDir(), Format: FormatESM, Target: "es1999",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "es1999")
}

func TestEsbuild_NoFiles(t *testing.T) {
	got, err := NewEsbuild().Transpile(context.Background(), Options{OutDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CJS ")
	require.NoError(t, err)
	assert.Equal(t, FormatCJS, f)
	f, err = ParseFormat("esm")
	require.NoError(t, err)
	assert.Equal(t, FormatESM, f)
	f, err = ParseFormat("  ")
	require.NoError(t, err)
	assert.Equal(t, FormatESM, f)
	_, err = ParseFormat("umd")
	assert.Error(t, err)
}

func TestCommonDir(t *testing.T) {
	root := t.TempDir()
	got := commonDir([]string{
		filepath.Join(root, "a", "x.ts"),
		filepath.Join(root, "a", "b", "y.ts"),
		filepath.Join(root, "c", "z.ts"),
	})
	assert.Equal(t, root, got)
}

func TestSupportedTargets(t *testing.T) {
	targets := SupportedTargets()
	assert.Contains(t, targets, "es2022")
	assert.Contains(t, targets, "esnext")
	assert.Contains(t, targets, "es2023")
	assert.IsIncreasing(t, targets)
}
