// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/patchgate/patchgate/internal/contract"
)

// NewMCPServer initializes and configures the Patchgate MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Patchgate Risk Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: score_patches ---
	s.AddTool(mcp.NewTool("score_patches",
		mcp.WithDescription("Score a batch of firmware patches for regression risk and return the gate decision."),
		mcp.WithString("input_file", mcp.Description("Path to the patch feature CSV file."), mcp.Required()),
		mcp.WithString("model", mcp.Description("Path to the model artifact JSON (defaults to the configured model).")),
		mcp.WithNumber("threshold", mcp.Description("Risk probability threshold for the HIGH label. Defaults to 0.5.")),
	), h.handleScorePatches)

	// --- 2. Tool: fleet_health ---
	s.AddTool(mcp.NewTool("fleet_health",
		mcp.WithDescription("Compute per-firmware-version fleet health metrics from telemetry history."),
	), h.handleFleetHealth)

	// --- 3. Tool: check_drift ---
	s.AddTool(mcp.NewTool("check_drift",
		mcp.WithDescription("Compare current fleet health metrics against the stored baseline and report drift."),
		mcp.WithNumber("tolerance", mcp.Description("Relative change tolerance before a metric counts as drifted. Defaults to 0.2.")),
	), h.handleCheckDrift)

	return s
}

// StartMCPServer starts the Patchgate MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
