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
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudwego/idl2sdk/internal/config"
	"github.com/cloudwego/idl2sdk/version"
)

func newLocateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show how anchor-client-gen would be invoked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := c.newGenerator(c.env).Locator.Locate(cmd.Context())
			out := cmd.OutOrStdout()
			if c.jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(loc)
			}
			fmt.Fprintf(out, "source:     %s\n", loc.Source)
			fmt.Fprintf(out, "executable: %s\n", loc.Executable)
			if len(loc.ArgsPrefix) > 0 {
				fmt.Fprintf(out, "prefix:     %s\n", strings.Join(loc.ArgsPrefix, " "))
			}
			fmt.Fprintf(out, "shell:      %t\n", loc.Shell)
			return nil
		},
	}
	cmd.Flags().BoolVar(&c.jsonOut, "json", false, "print the location as JSON")
	return cmd
}

func newSchemaCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of " + config.DefaultFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := config.JSONSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of idl2sdk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return err
		},
	}
}
