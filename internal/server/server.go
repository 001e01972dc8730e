package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/docrectify-mcp/internal/config"
	"github.com/ironsheep/docrectify-mcp/internal/imaging"
	"github.com/ironsheep/docrectify-mcp/internal/logging"
	"github.com/ironsheep/docrectify-mcp/internal/ocr"
	"github.com/ironsheep/docrectify-mcp/internal/rectify"
)

// Version is reported in the initialize handshake.
const Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	cfg      *config.Config
	pipeline *rectify.Pipeline
	overlay  color.RGBA
	logger   *slog.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server for cfg. A nil cfg uses config.Default and a nil
// logger discards everything.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	overlay, err := imaging.ParseOverlayColor(cfg.OverlayColor)
	if err != nil {
		logger.Warn("invalid overlay color, using default", "color", cfg.OverlayColor, "error", err)
		overlay, _ = imaging.ParseOverlayColor(imaging.DefaultOverlayColor)
	}

	opts := cfg.PipelineOptions()
	opts.Logger = logger

	return &Server{
		cache:    imaging.NewImageCacheWithLimit(cfg.MaxDimension),
		cfg:      cfg,
		pipeline: rectify.New(opts),
		overlay:  overlay,
		logger:   logger,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited requests from r until EOF, writing one
// response line per request to w. Notifications produce no output.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.logger.Error("failed to encode response", "error", err)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "method", req.Method, "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "docrectify-mcp",
				"version": Version,
				"ocr":     ocr.GetOCRInfo(),
			},
		},
	}
}
