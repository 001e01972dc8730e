package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
	"github.com/ironsheep/docrectify-mcp/internal/failure"
	"github.com/ironsheep/docrectify-mcp/internal/imaging"
	"github.com/ironsheep/docrectify-mcp/internal/ocr"
	"github.com/ironsheep/docrectify-mcp/internal/rectify"
)

// statusDetected is reported by document_detect_markers when all gates pass.
const statusDetected = "Valid: 4 markers detected"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "document_rectify").
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
// A rejected document (too few markers, quad too small...) is not a tool
// failure: the result carries valid=false with the code and status. Other
// errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Info("tool call", "tool", params.Name, "duration", time.Since(start))

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_release":
		return s.handleImageRelease(args)
	case "document_detect_markers":
		return s.handleDetectMarkers(args)
	case "document_rectify":
		return s.handleRectify(args)
	case "document_debug_mask":
		return s.handleDebugMask(args)
	case "document_histogram":
		return s.handleHistogram(args)
	case "document_ocr":
		return s.handleOCR(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadBuffer decodes path through the cache and converts it for the pipeline.
func (s *Server) loadBuffer(path string) (detection.PixelBuffer, error) {
	if path == "" {
		return detection.PixelBuffer{}, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return detection.PixelBuffer{}, err
	}
	return imaging.ToPixelBuffer(img), nil
}

// rejection extracts the classified pipeline failure from err. ok is false
// for errors that are not document rejections.
func rejection(err error) (fe *failure.Error, ok bool) {
	ok = errors.As(err, &fe)
	return fe, ok
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageReleaseResult struct {
	Released int `json:"released"`
	Cached   int `json:"cached"`
}

// handleImageRelease drops one path from the image cache, or every cached
// image when no path is given.
func (s *Server) handleImageRelease(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	result := &imageReleaseResult{}
	if a.Path == "" {
		result.Released = s.cache.Len()
		s.cache.Clear()
	} else if s.cache.Evict(a.Path) {
		result.Released = 1
	}
	result.Cached = s.cache.Len()
	s.logger.Debug("released cached images", "path", a.Path, "released", result.Released)
	return result, nil
}

// === Marker Detection ===

type detectMarkersResult struct {
	Valid         bool              `json:"valid"`
	Code          string            `json:"code,omitempty"`
	Status        string            `json:"status"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Threshold     int               `json:"threshold"`
	Components    int               `json:"components"`
	MarkerCount   int               `json:"marker_count"`
	Centroids     []detection.Point `json:"centroids"`
	Quad          *detection.Quad   `json:"quad,omitempty"`
	QuadAreaRatio float64           `json:"quad_area_ratio"`
}

func (s *Server) handleDetectMarkers(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.loadBuffer(a.Path)
	if err != nil {
		return nil, err
	}

	det, err := s.pipeline.Detect(buf)
	result := &detectMarkersResult{
		Valid:         err == nil,
		Status:        statusDetected,
		Width:         buf.Width,
		Height:        buf.Height,
		Threshold:     det.Threshold,
		Components:    det.Components,
		MarkerCount:   len(det.Centroids),
		Centroids:     det.Centroids,
		QuadAreaRatio: det.QuadAreaRatio,
	}
	if result.Centroids == nil {
		result.Centroids = []detection.Point{}
	}
	if det.HasQuad {
		q := det.Quad
		result.Quad = &q
	}
	if err != nil {
		fe, ok := rejection(err)
		if !ok {
			return nil, err
		}
		result.Code = string(fe.Code)
		result.Status = fe.Status()
	}
	return result, nil
}

// === Rectification ===

type rectifyArgs struct {
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
}

type rectifyResult struct {
	Valid       bool                  `json:"valid"`
	RunID       string                `json:"run_id"`
	Code        string                `json:"code,omitempty"`
	Status      string                `json:"status"`
	MarkerCount int                   `json:"marker_count"`
	Quad        *detection.Quad       `json:"quad,omitempty"`
	Degenerate  bool                  `json:"degenerate,omitempty"`
	Metrics     *rectify.Metrics      `json:"metrics,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Image       *imaging.RasterResult `json:"image,omitempty"`
}

// pipelineFor returns the shared pipeline, or a copy with a fixed output
// size when the call asks for one.
func (s *Server) pipelineFor(width, height int) *rectify.Pipeline {
	if width == 0 && height == 0 {
		return s.pipeline
	}
	opts := s.pipeline.Options()
	opts.TargetWidth = width
	opts.TargetHeight = height
	return rectify.New(opts)
}

// rectifyPath runs the full pipeline on path. A nil result with a nil error
// never happens; rejected documents return a result and a classified error.
func (s *Server) rectifyPath(path string, width, height int) (*rectify.Result, error) {
	buf, err := s.loadBuffer(path)
	if err != nil {
		return nil, err
	}
	return s.pipelineFor(width, height).Run(buf)
}

func (s *Server) handleRectify(args json.RawMessage) (interface{}, error) {
	var a rectifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	format, err := imaging.NormalizeFormat(a.Format)
	if err != nil {
		return nil, err
	}

	res, err := s.rectifyPath(a.Path, a.Width, a.Height)
	if res == nil {
		return nil, err
	}

	result := &rectifyResult{
		Valid:       err == nil,
		RunID:       res.RunID,
		Status:      res.Status,
		MarkerCount: len(res.Centroids),
	}
	if res.HasQuad {
		q := res.Quad
		result.Quad = &q
	}
	if err != nil {
		fe, ok := rejection(err)
		if !ok {
			return nil, err
		}
		result.Code = string(fe.Code)
		return result, nil
	}

	raster, err := imaging.EncodeRaster(res.Raster, format, a.OutputPath)
	if err != nil {
		return nil, err
	}
	metrics := res.Metrics
	result.Degenerate = res.Degenerate
	result.Metrics = &metrics
	result.Summary = metrics.String()
	result.Image = raster
	return result, nil
}

// === Diagnostics ===

type debugMaskArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

type debugMaskResult struct {
	Valid       bool                  `json:"valid"`
	Code        string                `json:"code,omitempty"`
	Status      string                `json:"status"`
	Threshold   int                   `json:"threshold"`
	MarkerCount int                   `json:"marker_count"`
	Image       *imaging.RasterResult `json:"image"`
}

func (s *Server) handleDebugMask(args json.RawMessage) (interface{}, error) {
	var a debugMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.loadBuffer(a.Path)
	if err != nil {
		return nil, err
	}

	opts := s.pipeline.Options()
	opts.KeepMask = true
	det, err := rectify.New(opts).Detect(buf)

	result := &debugMaskResult{
		Valid:       err == nil,
		Status:      statusDetected,
		Threshold:   det.Threshold,
		MarkerCount: len(det.Centroids),
	}
	if err != nil {
		fe, ok := rejection(err)
		if !ok {
			return nil, err
		}
		result.Code = string(fe.Code)
		result.Status = fe.Status()
	}
	if det.Mask == nil {
		return nil, fmt.Errorf("no mask available: %s", result.Status)
	}

	diag := imaging.RenderDiagnostic(*det.Mask, det.Centroids, s.overlay)
	raster, err := imaging.EncodeRaster(imaging.ToPixelBuffer(diag), imaging.FormatPNG, a.OutputPath)
	if err != nil {
		return nil, err
	}
	result.Image = raster
	return result, nil
}

type histogramArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleHistogram(args json.RawMessage) (interface{}, error) {
	var a histogramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.loadBuffer(a.Path)
	if err != nil {
		return nil, err
	}

	// The histogram exists even when marker detection rejects the image.
	det, err := s.pipeline.Detect(buf)
	if err != nil && failure.Is(err, failure.InvalidInput) {
		return nil, err
	}
	return imaging.HistogramChart(det.Histogram, det.Threshold, a.Width, a.Height)
}

// === OCR ===

type ocrRegion struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type ocrArgs struct {
	Path     string     `json:"path"`
	Language string     `json:"language"`
	Region   *ocrRegion `json:"region"`
	Rectify  *bool      `json:"rectify"`
}

type ocrToolResult struct {
	Valid  bool   `json:"valid"`
	RunID  string `json:"run_id,omitempty"`
	Code   string `json:"code,omitempty"`
	Status string `json:"status"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	*ocr.OCRResult
}

func (s *Server) handleOCR(args json.RawMessage) (interface{}, error) {
	var a ocrArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	language := a.Language
	if language == "" {
		language = s.cfg.OCRLanguage
	}

	var (
		page   image.Image
		result *ocrToolResult
	)
	if a.Rectify != nil && !*a.Rectify {
		if a.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		page = img
		result = &ocrToolResult{Valid: true, Status: "Valid: OCR on the original image"}
	} else {
		res, err := s.rectifyPath(a.Path, 0, 0)
		if res == nil {
			return nil, err
		}
		result = &ocrToolResult{
			Valid:  err == nil,
			RunID:  res.RunID,
			Status: res.Status,
		}
		if err != nil {
			fe, ok := rejection(err)
			if !ok {
				return nil, err
			}
			result.Code = string(fe.Code)
			return result, nil
		}
		page = imaging.ToImage(res.Raster)
	}

	if info := ocr.GetOCRInfo(); !info.Available {
		return nil, fmt.Errorf("tesseract OCR unavailable: %s", info.Error)
	}

	var (
		text *ocr.OCRResult
		err  error
	)
	if a.Region != nil {
		region := image.Rect(a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2)
		text, err = ocr.ExtractRegion(page, region, language)
	} else {
		text, err = ocr.ExtractImage(page, language)
	}
	if err != nil {
		return nil, err
	}
	result.Width = page.Bounds().Dx()
	result.Height = page.Bounds().Dy()
	result.OCRResult = text
	return result, nil
}
