package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/coin-counter/internal/counter"
	"github.com/ironsheep/coin-counter/internal/detection"
	"github.com/ironsheep/coin-counter/internal/imaging"
	"github.com/ironsheep/coin-counter/internal/valuation"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke ("coin_count" or "coin_denominations").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Coded pipeline failures carry their ProcessingError fields as data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var pe *counter.ProcessingError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, -32000, "Tool execution failed", pe.ToMap())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "coin_count":
		return s.handleCoinCount(ctx, args)
	case "coin_denominations":
		return s.handleCoinDenominations(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// maxUpscale bounds display_height relative to the source height.
const maxUpscale = 10

// maxDisplayHeight returns the largest display height allowed for a source of
// the given height. Small sources may always be fitted to the configured
// viewport height.
func maxDisplayHeight(sourceHeight, viewport int) int {
	limit := sourceHeight * maxUpscale
	if limit < viewport {
		limit = viewport
	}
	return limit
}

type coinCountArgs struct {
	Path          string `json:"path"`
	DisplayHeight int    `json:"display_height"`
	IncludeImage  bool   `json:"include_image"`
}

// ReportItem is one denomination line of the summary.
type ReportItem struct {
	Label    string              `json:"label"`
	Count    int                 `json:"count"`
	Value    int                 `json:"value"`
	Subtotal int                 `json:"subtotal"`
	Color    imaging.ColorResult `json:"color"`
	Text     string              `json:"text"`
}

// CoinCountResult is the coin_count tool output.
type CoinCountResult struct {
	ImageID    string                `json:"image_id"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Report     []string              `json:"report"`
	Items      []ReportItem          `json:"items"`
	Counts     map[string]int        `json:"counts"`
	Total      int                   `json:"total"`
	Currency   string                `json:"currency"`
	Detections []detection.Detection `json:"detections"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
	ElapsedMs  int64                 `json:"elapsed_ms"`
}

func (s *Server) handleCoinCount(ctx context.Context, args json.RawMessage) (interface{}, error) {
	if s.unavailable != nil || s.counter == nil {
		return nil, counter.NewAdapterUnavailableError(s.unavailable)
	}

	var a coinCountArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.DisplayHeight == 0 {
		a.DisplayHeight = s.displayHeight
	}
	if a.DisplayHeight < 0 {
		return nil, fmt.Errorf("display_height must be positive, got %d", a.DisplayHeight)
	}

	out, err := s.counter.ProcessFile(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	result := &CoinCountResult{
		ImageID:    out.ImageID,
		Width:      out.Width,
		Height:     out.Height,
		Report:     make([]string, 0, len(out.Report.Lines)),
		Items:      make([]ReportItem, 0, len(out.Report.Lines)),
		Counts:     out.Result.Counts,
		Total:      out.Result.Total,
		Currency:   valuation.Currency,
		Detections: out.Detections,
		ElapsedMs:  out.Elapsed.Milliseconds(),
	}
	if result.Detections == nil {
		result.Detections = []detection.Detection{}
	}
	for _, line := range out.Report.Lines {
		result.Report = append(result.Report, line.Text)
	}
	for _, item := range out.Report.Items() {
		result.Items = append(result.Items, ReportItem{
			Label:    item.Label,
			Count:    item.Count,
			Value:    item.Value,
			Subtotal: item.Subtotal,
			Color:    imaging.DescribeColor(item.Color),
			Text:     item.Text,
		})
	}

	if a.IncludeImage {
		if limit := maxDisplayHeight(out.Height, s.displayHeight); a.DisplayHeight > limit {
			return nil, fmt.Errorf("display_height %d exceeds the limit of %d for a %dpx tall image",
				a.DisplayHeight, limit, out.Height)
		}
		resized, err := imaging.FitHeight(out.Annotated, a.DisplayHeight)
		if err != nil {
			return nil, err
		}
		enc, err := imaging.EncodePNG(resized)
		if err != nil {
			return nil, err
		}
		result.Image = enc
	}

	return result, nil
}

type denomination struct {
	Label string              `json:"label"`
	Value int                 `json:"value"`
	Color imaging.ColorResult `json:"color"`
}

func (s *Server) handleCoinDenominations(_ json.RawMessage) (interface{}, error) {
	entries := s.table.Entries()
	denoms := make([]denomination, 0, len(entries))
	for _, e := range entries {
		denoms = append(denoms, denomination{Label: e.Label, Value: e.Value, Color: imaging.DescribeColor(e.Color)})
	}
	return map[string]interface{}{
		"currency":       valuation.Currency,
		"denominations":  denoms,
		"fallback_color": imaging.DescribeColor(valuation.FallbackColor),
	}, nil
}
