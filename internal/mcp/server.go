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

// Package mcp exposes SDK generation as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/cloudwego/idl2sdk/internal/config"
	"github.com/cloudwego/idl2sdk/internal/generator"
	"github.com/cloudwego/idl2sdk/internal/locator"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

const (
	ToolGenerateSDK     = "generate_sdk"
	ToolLocateGenerator = "locate_generator"

	DescGenerateSDK     = "Generate a compiled JavaScript client SDK from an Anchor IDL file. Omitted arguments fall back to the server's configuration. Returns the output directory and the emitted files."
	DescLocateGenerator = "Report how the anchor-client-gen generator would be invoked on this host."
)

// Generator is what the generate_sdk tool drives.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (*generator.Result, error)
}

// ToolLocator is what the locate_generator tool reports on.
type ToolLocator interface {
	Locate(ctx context.Context) locator.ToolLocation
}

type ServerOptions struct {
	ServerName    string
	ServerVersion string

	Generator Generator
	Locator   ToolLocator
	// Defaults fill arguments a caller leaves out; nil means config.Default().
	Defaults *config.Config
}

type Server struct {
	*server.MCPServer
}

func NewServer(opts ServerOptions) *Server {
	s := server.NewMCPServer(opts.ServerName, opts.ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range newTools(opts) {
		s.AddTool(t.Tool, t.Handler)
	}
	return &Server{MCPServer: s}
}

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer)
}
