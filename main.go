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
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cloudwego/idl2sdk/internal/config"
	"github.com/cloudwego/idl2sdk/internal/env"
	"github.com/cloudwego/idl2sdk/internal/generator"
	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

// cli holds the flag values and the collaborators of one invocation.
type cli struct {
	env          *env.Environment
	newGenerator func(e *env.Environment) *generator.Generator

	configPath string
	logLevel   string
	verbose    bool
	strict     bool
	jsonOut    bool

	source    string
	programID string
	tempDir   string
	outputDir string
	format    string
	target    string
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "idl2sdk",
		Short: "Generate a compiled JavaScript SDK from an Anchor IDL",
		Long: `idl2sdk runs anchor-client-gen on an Anchor IDL file and compiles the
generated TypeScript to JavaScript (ESM or CommonJS), one output file per
generated file.

The generator is taken from ./node_modules/.bin, then PATH, then the usual
global install directories, and otherwise fetched with npx.

Settings come from idl2sdk.yaml, IDL2SDK_* environment variables and flags,
later sources overriding earlier ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
		RunE: c.runGenerate,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "stream generator output and log debug messages")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&c.strict, "strict", false, "fail when a normally tolerated step fails")
	pf.StringVarP(&c.source, "idl", "i", "", "path to the Anchor IDL JSON file (default ./idl.json)")
	pf.StringVar(&c.programID, "program-id", "", "program id override (default: read from the IDL)")
	pf.StringVar(&c.tempDir, "temp-dir", "", "scratch directory for generated TypeScript (default ./.tmp-ts)")
	pf.StringVarP(&c.outputDir, "out", "o", "", "output directory for compiled JavaScript (default ./sdk-js)")
	pf.StringVar(&c.format, "format", "", "module format: esm or cjs (default esm)")
	pf.StringVar(&c.target, "target", "", "ECMAScript target, e.g. es2020 (default es2022)")

	root.AddCommand(
		newGenerateCmd(c),
		newWatchCmd(c),
		newLocateCmd(c),
		newSchemaCmd(c),
		newMCPCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) setupLogging() error {
	if c.logLevel != "" {
		l, err := log.ParseLevel(c.logLevel)
		if err != nil {
			return err
		}
		log.SetLogLevel(l)
	} else if c.verbose {
		log.SetLogLevel(log.DebugLevel)
	}
	return nil
}

// loadConfig layers defaults, the config file, the environment (a ./.env file
// fills unset variables) and the flags that were set explicitly.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, mustExist := c.configPath, true
	if path == "" {
		path, mustExist = config.DefaultFile, false
	}
	cfg, err := config.Load(c.env.Abs(path), mustExist)
	if err != nil {
		return nil, err
	}
	if err := c.env.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(c.env); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	for name, pair := range map[string][2]*string{
		"idl":        {&cfg.Source, &c.source},
		"program-id": {&cfg.ProgramID, &c.programID},
		"temp-dir":   {&cfg.TempDir, &c.tempDir},
		"out":        {&cfg.OutputDir, &c.outputDir},
		"format":     {&cfg.Format, &c.format},
		"target":     {&cfg.Target, &c.target},
	} {
		if flags.Changed(name) {
			*pair[0] = *pair[1]
		}
	}
	if flags.Changed("verbose") {
		cfg.Verbose = c.verbose
	}
	if flags.Changed("strict") {
		cfg.Strict = c.strict
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generator builds a Generator configured for cfg.
func (c *cli) generator(cfg *config.Config) *generator.Generator {
	g := c.newGenerator(c.env)
	if cfg.Strict {
		g.Agent = &pipeline.StrictAgent{}
	}
	g.OnProgress = func(rec pipeline.StepRecord) {
		switch rec.Status {
		case pipeline.StepOK:
			log.Info("%-10s done in %s", rec.StepName, rec.Duration)
		case pipeline.StepWarning:
			log.Warn("%-10s finished with a warning", rec.StepName)
		}
	}
	return g
}

func main() {
	e, err := env.FromOS()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&cli{env: e, newGenerator: generator.New})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
