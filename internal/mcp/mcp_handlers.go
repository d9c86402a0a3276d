package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/patchgate/patchgate/core"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/featurestore"
	"github.com/patchgate/patchgate/internal/model"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleScorePatches(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.FeatureFile = request.GetString("input_file", "")
	if p := request.GetString("model", ""); p != "" {
		cfg.ModelPath = p
	}
	if t := request.GetFloat("threshold", 0); t > 0 {
		cfg.Threshold = t
	}

	records, err := featurestore.LoadFeatureFile(cfg.FeatureFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("feature load failed: %v", err)), nil
	}
	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("model load failed: %v", err)), nil
	}
	decision, err := core.Evaluate(records, m, cfg.Threshold, cfg.FeatureFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(decision, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFleetHealth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metrics, err := core.LoadHealthMetrics(ctx, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("health computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(metrics, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckDrift(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if t := request.GetFloat("tolerance", 0); t > 0 {
		cfg.Tolerance = t
	}

	baseline, err := h.mgr.GetBaselineStore().LoadBaseline(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("baseline load failed: %v", err)), nil
	}
	current, err := core.LoadHealthMetrics(ctx, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("health computation failed: %v", err)), nil
	}

	reports := core.CompareToBaseline(baseline, current, cfg.Tolerance)
	result := map[string]any{
		"baseline_version": baseline.Version,
		"tolerance":        cfg.Tolerance,
		"drift_detected":   core.AnyDrift(reports),
		"reports":          reports,
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
