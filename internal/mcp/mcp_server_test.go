package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/patchgate/patchgate/internal/contract"
	mcp_internal "github.com/patchgate/patchgate/internal/mcp"
	"github.com/patchgate/patchgate/internal/telemetry"
	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_Errors(t *testing.T) {
	baseCfg := &contract.Config{
		Threshold: schema.DefaultRiskThreshold,
		Tolerance: schema.DefaultDriftTolerance,
	}

	mgr := &telemetry.MockStoreManager{}
	baselineStore := &telemetry.MockBaselineStore{}
	baselineStore.On("LoadBaseline", context.Background()).Return(schema.Baseline{}, telemetry.ErrNoBaseline)
	mgr.On("GetBaselineStore").Return(baselineStore)

	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("score_patches missing input file", func(t *testing.T) {
		tool := s.GetTool("score_patches")
		require.NotNil(t, tool, "Tool score_patches should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "score_patches",
				Arguments: map[string]any{
					"input_file": "does-not-exist.csv",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "feature load failed")
	})

	t.Run("check_drift without baseline", func(t *testing.T) {
		tool := s.GetTool("check_drift")
		require.NotNil(t, tool, "Tool check_drift should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "check_drift",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "baseline load failed")
	})

	t.Run("fleet_health tool registered", func(t *testing.T) {
		require.NotNil(t, s.GetTool("fleet_health"), "Tool fleet_health should exist")
	})
}
