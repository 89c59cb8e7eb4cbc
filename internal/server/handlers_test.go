package server

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/coin-counter/internal/counter"
	"github.com/ironsheep/coin-counter/internal/detection"
	"github.com/ironsheep/coin-counter/internal/imaging"
	"github.com/ironsheep/coin-counter/internal/valuation"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

// newTestServer returns a server whose detector replays dets.
func newTestServer(dets []detection.Detection) *Server {
	det := detection.NewStatic(dets, 0.45)
	return New(Options{Counter: counter.New(det, valuation.Default(), nil)})
}

func scenarioDetections() []detection.Detection {
	return []detection.Detection{
		{Box: detection.Bounds{X1: 10, Y1: 40, X2: 60, Y2: 90}, Label: "10ft", Confidence: 0.9},
		{Box: detection.Bounds{X1: 70, Y1: 40, X2: 120, Y2: 90}, Label: "10ft", Confidence: 0.8},
		{Box: detection.Bounds{X1: 130, Y1: 40, X2: 190, Y2: 100}, Label: "50ft", Confidence: 0.95},
	}
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeText unmarshals the JSON text content of a successful tool response.
func decodeText(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one item, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func TestHandleToolsCall_CoinCount(t *testing.T) {
	s := newTestServer(scenarioDetections())
	imgPath := createTestImageFile(t, 200, 130, color.RGBA{90, 90, 90, 255})

	resp := callTool(t, s, "coin_count", map[string]interface{}{"path": imgPath})

	var result CoinCountResult
	decodeText(t, resp, &result)

	if result.Total != 70 {
		t.Errorf("Total: got %d, want 70", result.Total)
	}
	if result.Currency != "Ft" {
		t.Errorf("Currency: got %s, want Ft", result.Currency)
	}
	if result.Counts["10ft"] != 2 || result.Counts["50ft"] != 1 {
		t.Errorf("Counts: got %v", result.Counts)
	}
	wantReport := []string{
		"1x  50ft     = 50 Ft",
		"2x  10ft     = 20 Ft",
		"TOTAL: 70 Ft",
	}
	if len(result.Report) != len(wantReport) {
		t.Fatalf("Report: got %v, want %v", result.Report, wantReport)
	}
	for i := range wantReport {
		if result.Report[i] != wantReport[i] {
			t.Errorf("Report[%d]: got %q, want %q", i, result.Report[i], wantReport[i])
		}
	}
	if len(result.Items) != 2 || result.Items[0].Color.Hex != "#32cd32" || result.Items[0].Color.RGB.G != 205 {
		t.Errorf("Items: got %+v", result.Items)
	}
	if len(result.Detections) != 3 {
		t.Errorf("Detections: got %d, want 3", len(result.Detections))
	}
	if result.Image != nil {
		t.Error("Image should be omitted unless include_image is set")
	}
	if result.ImageID == "" {
		t.Error("ImageID should be set")
	}
}

func TestHandleToolsCall_CoinCount_IncludeImage(t *testing.T) {
	s := newTestServer(scenarioDetections())
	imgPath := createTestImageFile(t, 200, 100, color.RGBA{90, 90, 90, 255})

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantWidth  int
		wantHeight int
	}{
		{"default height", map[string]interface{}{"path": imgPath, "include_image": true}, 1300, 650},
		{"custom height", map[string]interface{}{"path": imgPath, "include_image": true, "display_height": 50}, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result CoinCountResult
			decodeText(t, callTool(t, s, "coin_count", tt.args), &result)

			if result.Image == nil {
				t.Fatal("Image should be present")
			}
			if result.Image.Width != tt.wantWidth || result.Image.Height != tt.wantHeight {
				t.Errorf("image size: got %dx%d, want %dx%d",
					result.Image.Width, result.Image.Height, tt.wantWidth, tt.wantHeight)
			}
			if result.Image.MimeType != "image/png" || result.Image.ImageBase64 == "" {
				t.Error("Image should carry base64 PNG data")
			}
			if result.Width != 200 || result.Height != 100 {
				t.Errorf("source size: got %dx%d, want 200x100", result.Width, result.Height)
			}
		})
	}
}

func TestHandleToolsCall_CoinCount_DisplayHeightLimit(t *testing.T) {
	s := newTestServer(scenarioDetections())
	imgPath := createTestImageFile(t, 200, 100, color.RGBA{90, 90, 90, 255})

	tests := []struct {
		name    string
		height  int
		wantErr bool
	}{
		{"viewport height allowed for small source", 650, false},
		{"ten times source allowed", 1000, false},
		{"beyond ten times source", 1001, true},
		{"huge", 1 << 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "coin_count", map[string]interface{}{
				"path": imgPath, "include_image": true, "display_height": tt.height,
			})
			if (resp.Error != nil) != tt.wantErr {
				t.Fatalf("error = %+v, wantErr %v", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestMaxDisplayHeight(t *testing.T) {
	tests := []struct {
		source, viewport, want int
	}{
		{100, 650, 1000},
		{20, 650, 650},
		{1000, 650, 10000},
	}
	for _, tt := range tests {
		if got := maxDisplayHeight(tt.source, tt.viewport); got != tt.want {
			t.Errorf("maxDisplayHeight(%d, %d) = %d, want %d", tt.source, tt.viewport, got, tt.want)
		}
	}
}

func TestHandleToolsCall_CoinCount_NoCoins(t *testing.T) {
	s := newTestServer(nil)
	imgPath := createTestImageFile(t, 40, 40, color.White)

	var result CoinCountResult
	decodeText(t, callTool(t, s, "coin_count", map[string]interface{}{"path": imgPath}), &result)

	if result.Total != 0 {
		t.Errorf("Total: got %d, want 0", result.Total)
	}
	if len(result.Report) != 1 || result.Report[0] != "TOTAL: 0 Ft" {
		t.Errorf("Report: got %v", result.Report)
	}
	if result.Detections == nil {
		t.Error("Detections should be an empty list, not null")
	}
}

func TestHandleToolsCall_CoinCount_Errors(t *testing.T) {
	s := newTestServer(nil)
	dir := t.TempDir()
	gif := filepath.Join(dir, "coins.gif")
	os.WriteFile(gif, []byte("GIF89a"), 0o644)

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantCode string // empty for plain errors
	}{
		{"missing path", map[string]interface{}{}, ""},
		{"negative height", map[string]interface{}{"path": gif, "display_height": -1}, ""},
		{"unsupported format", map[string]interface{}{"path": gif}, "UNSUPPORTED_FORMAT"},
		{"missing file", map[string]interface{}{"path": filepath.Join(dir, "nope.png")}, "IMAGE_LOAD_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "coin_count", tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
			if tt.wantCode == "" {
				if _, ok := resp.Error.Data.(string); !ok {
					t.Errorf("Data should be a string, got %T", resp.Error.Data)
				}
				return
			}
			data, ok := resp.Error.Data.(map[string]interface{})
			if !ok {
				t.Fatalf("Data should be a map, got %T", resp.Error.Data)
			}
			if data["error_code"] != tt.wantCode {
				t.Errorf("error_code: got %v, want %s", data["error_code"], tt.wantCode)
			}
		})
	}
}

func TestHandleToolsCall_CoinCount_DetectionFailed(t *testing.T) {
	det := &detection.Static{Err: errors.New("inference crashed")}
	s := New(Options{Counter: counter.New(det, nil, nil)})
	imgPath := createTestImageFile(t, 20, 20, color.White)

	resp := callTool(t, s, "coin_count", map[string]interface{}{"path": imgPath})
	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	data := resp.Error.Data.(map[string]interface{})
	if data["error_code"] != "DETECTION_FAILED" {
		t.Errorf("error_code: got %v, want DETECTION_FAILED", data["error_code"])
	}

	// The server keeps serving after a per-image failure.
	det.Err = nil
	var result CoinCountResult
	decodeText(t, callTool(t, s, "coin_count", map[string]interface{}{"path": imgPath}), &result)
}

func TestHandleToolsCall_CoinCount_AdapterUnavailable(t *testing.T) {
	s := New(Options{Unavailable: detection.Unavailable("model file missing")})

	resp := callTool(t, s, "coin_count", map[string]interface{}{"path": "/x.png"})
	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	data := resp.Error.Data.(map[string]interface{})
	if data["error_code"] != "ADAPTER_UNAVAILABLE" {
		t.Errorf("error_code: got %v, want ADAPTER_UNAVAILABLE", data["error_code"])
	}

	// coin_denominations does not need a detector.
	var denoms map[string]interface{}
	decodeText(t, callTool(t, s, "coin_denominations", nil), &denoms)
}

func TestHandleToolsCall_CoinDenominations(t *testing.T) {
	s := newTestServer(nil)

	var result struct {
		Currency      string              `json:"currency"`
		FallbackColor imaging.ColorResult `json:"fallback_color"`
		Denominations []struct {
			Label string              `json:"label"`
			Value int                 `json:"value"`
			Color imaging.ColorResult `json:"color"`
		} `json:"denominations"`
	}
	decodeText(t, callTool(t, s, "coin_denominations", map[string]interface{}{}), &result)

	if result.Currency != "Ft" {
		t.Errorf("Currency: got %s, want Ft", result.Currency)
	}
	if result.FallbackColor.Hex != "#00ff00" {
		t.Errorf("FallbackColor: got %s, want #00ff00", result.FallbackColor.Hex)
	}
	wantLabels := []string{"200ft", "100ft", "50ft", "10ft", "5ft"}
	if len(result.Denominations) != len(wantLabels) {
		t.Fatalf("Denominations: got %d, want %d", len(result.Denominations), len(wantLabels))
	}
	for i, want := range wantLabels {
		if result.Denominations[i].Label != want {
			t.Errorf("Denominations[%d]: got %s, want %s", i, result.Denominations[i].Label, want)
		}
	}
	if result.Denominations[0].Value != 200 || result.Denominations[0].Color.Hex != "#ff0000" {
		t.Errorf("200ft: got %+v", result.Denominations[0])
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer(nil)

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("expected an error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(nil)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid json}`),
	}

	resp := s.handleToolsCall(context.Background(), req)
	if resp.Error == nil {
		t.Fatal("expected an error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(nil)

	if _, err := s.executeTool(context.Background(), "coin_count", json.RawMessage(`{bad`)); err == nil {
		t.Error("executeTool should fail for malformed arguments")
	}
}
