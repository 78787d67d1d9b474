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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudwego/idl2sdk/internal/generator"
)

func newGenerateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the SDK once and print the output directory",
		Example: `  idl2sdk generate --idl target/idl/counter.json --out sdk-js --format cjs
  idl2sdk generate --program-id Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS --json`,
		Args: cobra.NoArgs,
		RunE: c.runGenerate,
	}
	cmd.Flags().BoolVar(&c.jsonOut, "json", false, "print the full result as JSON")
	return cmd
}

func (c *cli) runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := c.generator(cfg).Generate(cmd.Context(), cfg.ToRequest())
	if err != nil {
		return err
	}
	return c.printResult(cmd, res)
}

func (c *cli) printResult(cmd *cobra.Command, res *generator.Result) error {
	out := cmd.OutOrStdout()
	if !c.jsonOut {
		_, err := fmt.Fprintln(out, res.OutputDir)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
