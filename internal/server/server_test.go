package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/docrectify-mcp/internal/config"
	"github.com/ironsheep/docrectify-mcp/internal/ocr"
)

func TestNew(t *testing.T) {
	s := New(nil, nil)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.pipeline == nil {
		t.Fatal("New() did not initialize pipeline")
	}
	if s.cache.MaxDimension() != config.Default().MaxDimension {
		t.Errorf("cache limit: got %d, want %d", s.cache.MaxDimension(), config.Default().MaxDimension)
	}
}

func TestNew_UsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDimension = 800
	cfg.MinQuadArea = 0.25
	cfg.OverlayColor = "#00FF00"

	s := New(cfg, nil)

	if s.cache.MaxDimension() != 800 {
		t.Errorf("cache limit: got %d, want 800", s.cache.MaxDimension())
	}
	if got := s.pipeline.Options().MinQuadAreaFraction; got != 0.25 {
		t.Errorf("MinQuadAreaFraction: got %v, want 0.25", got)
	}
	if s.overlay.G != 255 || s.overlay.R != 0 {
		t.Errorf("overlay: got %+v, want green", s.overlay)
	}
}

func TestNew_BadOverlayFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.OverlayColor = "not-a-color"

	s := New(cfg, nil)

	if s.overlay.R != 255 || s.overlay.G != 0 || s.overlay.B != 0 {
		t.Errorf("overlay: got %+v, want default red", s.overlay)
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
			if req.JSONRPC != "2.0" {
				t.Errorf("JSONRPC: got %s, want 2.0", req.JSONRPC)
			}
		})
	}
}

func TestMCPResponse_WithError(t *testing.T) {
	resp := MCPResponse{
		JSONRPC: "2.0",
		ID:      1,
		Error: &MCPError{
			Code:    -32601,
			Message: "Method not found",
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if strings.Contains(string(data), `"result"`) {
		t.Errorf("error response should omit result: %s", data)
	}

	var decoded MCPResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error should not be nil")
	}
	if decoded.Error.Code != -32601 {
		t.Errorf("Error.Code: got %d, want -32601", decoded.Error.Code)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != 1 {
		t.Errorf("ID: got %v, want 1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "docrectify-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != Version {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
	if _, ok := serverInfo["ocr"].(ocr.OCRInfo); !ok {
		t.Errorf("serverInfo.ocr: got %T, want ocr.OCRInfo", serverInfo["ocr"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "ping-1",
		Method:  "ping",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Expected %d tools, got %d", len(GetToolDefinitions()), len(toolsList))
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	// Notifications don't get responses
	if resp := s.handleRequest(req); resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nonexistent/method",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

func TestServe(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	s := New(nil, nil)
	if err := s.Serve(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}

	// initialize, parse error, ping; the notification and blank line are silent
	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(responses))
	}
	if responses[0].ID != float64(1) || responses[0].Error != nil {
		t.Errorf("initialize response: %+v", responses[0])
	}
	if responses[1].Error == nil || responses[1].Error.Code != -32700 {
		t.Errorf("parse error response: %+v", responses[1])
	}
	if responses[2].ID != float64(2) || responses[2].Error != nil {
		t.Errorf("ping response: %+v", responses[2])
	}
}
