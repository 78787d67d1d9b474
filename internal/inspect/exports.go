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

// Package inspect reads generated TypeScript with tree-sitter and reports what
// each file exports.
package inspect

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrSyntax is returned, wrapped, when the source has parse errors. The names
// found in the well-formed parts are still returned alongside it.
var ErrSyntax = errors.New("syntax error")

// Star marks an `export * from "..."` re-export.
const Star = "*"

// Scanner lists top-level exports. Safe for concurrent use; every call builds
// its own parser.
type Scanner struct{}

func NewScanner() *Scanner { return &Scanner{} }

// Exports returns the sorted, de-duplicated exported names of src. The
// default export is reported as "default".
func (s *Scanner) Exports(ctx context.Context, path string, src []byte) ([]string, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	seen := make(map[string]struct{})
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "export_statement" {
			continue
		}
		for _, name := range exportedNames(child, src) {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	if root.HasError() {
		return names, errors.Wrapf(ErrSyntax, "%s", path)
	}
	return names, nil
}

func exportedNames(stmt *sitter.Node, src []byte) []string {
	text := func(n *sitter.Node) string {
		return string(src[n.StartByte():n.EndByte()])
	}

	for i := 0; i < int(stmt.ChildCount()); i++ {
		if stmt.Child(i).Type() == "default" {
			return []string{"default"}
		}
	}

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		return declarationNames(decl, text)
	}

	var out []string
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		switch child.Type() {
		case "export_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					out = append(out, text(alias))
				} else if name := spec.ChildByFieldName("name"); name != nil {
					out = append(out, text(name))
				}
			}
		case "namespace_export":
			if child.NamedChildCount() > 0 {
				out = append(out, unquote(text(child.NamedChild(0))))
			}
		}
	}
	if len(out) == 0 && stmt.ChildByFieldName("source") != nil {
		out = append(out, Star)
	}
	return out
}

func declarationNames(decl *sitter.Node, text func(*sitter.Node) string) []string {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		var out []string
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			v := decl.NamedChild(i)
			if v.Type() != "variable_declarator" {
				continue
			}
			if name := v.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				out = append(out, text(name))
			}
		}
		return out
	default:
		if name := decl.ChildByFieldName("name"); name != nil {
			return []string{unquote(text(name))}
		}
	}
	return nil
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}
