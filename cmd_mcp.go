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
	"github.com/spf13/cobra"

	"github.com/cloudwego/idl2sdk/internal/mcp"
	"github.com/cloudwego/idl2sdk/version"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve generate_sdk and locate_generator as MCP tools over stdio",
		Long: `mcp runs a Model Context Protocol server on stdin/stdout. Tool calls
use the loaded configuration for any argument they leave out. Logs go to
stderr and generator output is always captured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			g := c.generator(cfg)
			svr := mcp.NewServer(mcp.ServerOptions{
				ServerName:    "idl2sdk",
				ServerVersion: version.Version,
				Generator:     g,
				Locator:       g.Locator,
				Defaults:      cfg,
			})
			return svr.ServeStdio()
		},
	}
}
