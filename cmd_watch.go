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
	"context"

	"github.com/spf13/cobra"

	"github.com/cloudwego/idl2sdk/internal/watch"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the IDL file changes",
		Long: `watch generates once, then again after every change to the IDL file.
Saves that leave the content unchanged are ignored. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			debounce, err := cfg.DebounceDuration()
			if err != nil {
				return err
			}
			g := c.generator(cfg)
			req := cfg.ToRequest()

			w := &watch.Watcher{
				Path:     c.env.Abs(cfg.Source),
				Debounce: debounce,
				OnChange: func(ctx context.Context) error {
					res, err := g.Generate(ctx, req)
					if err != nil {
						return err
					}
					return c.printResult(cmd, res)
				},
			}
			return w.Run(cmd.Context())
		},
	}
}
