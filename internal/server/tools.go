package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "coin_count",
			Description: "Detect and count Hungarian forint coins in a JPEG or PNG photograph. Returns the summary report lines, per-denomination counts, the total value in Ft and the raw detections. Optionally returns the annotated image as base64 PNG, resized to a fixed display height.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a .jpg, .jpeg or .png file",
					},
					"display_height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels of the returned annotated image; width keeps the aspect ratio. Default 650",
						"default":     650,
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated image as base64 PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "coin_denominations",
			Description: "List the known coin denominations with their value in Ft and annotation colour, highest value first.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
