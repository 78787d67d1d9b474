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

package inspect

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Exports(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "declarations",
			src: `export class Counter { value = 0 }
export function increment(c: Counter): void { c.value++ }
export interface CounterFields { value: number }
export type CounterJSON = { value: number }
export enum Kind { A, B }
export const PROGRAM_ID = "11111111111111111111111111111111", other = 1
const hidden = 2
`,
			want: []string{"Counter", "CounterFields", "CounterJSON", "Kind", "PROGRAM_ID", "increment", "other"},
		},
		{
			name: "barrel file",
			src: `export { Counter } from "./Counter"
export { Foo as Bar } from "./Foo"
export * from "./errors"
`,
			want: []string{"*", "Bar", "Counter"},
		},
		{
			name: "default export",
			src:  "export default function main() {}\n",
			want: []string{"default"},
		},
		{
			name: "nothing exported",
			src:  "const a = 1\nfunction b() {}\n",
			want: []string{},
		},
	}
	s := NewScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Exports(context.Background(), tt.name+".ts", []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanner_Exports_SyntaxError(t *testing.T) {
	src := "export const ok = 1\nexport function broken( {\n"
	got, err := NewScanner().Exports(context.Background(), "broken.ts", []byte(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.Contains(t, got, "ok")
}
