package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the photographed document (PNG, JPEG, GIF, BMP, TIFF or WebP)",
}

var outputPathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Optional file to write the result to. When set, the base64 payload is omitted.",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format, including whether it was downscaled for processing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_release",
			Description: "Drop a decoded image from the server's cache so the next call re-reads the file. " +
				"Without a path, every cached image is released.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path of the image to release, as passed to the other tools",
					},
				},
				"required": []string{},
			},
		},
		{
			Name: "document_detect_markers",
			Description: "Find the four dark square corner markers on a photographed page. " +
				"Returns the Otsu threshold, the marker centroids, the ordered quadrilateral " +
				"(top-left, top-right, bottom-right, bottom-left) and the share of the image it covers. " +
				"When detection fails, valid is false and code/status explain why.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "document_rectify",
			Description: "Detect the corner markers and warp the page between them into a flat, " +
				"fronto-parallel image. The output size is derived from the marker distances; a " +
				"single given side is kept and the other follows the markers' aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Output width in pixels. 0 derives it from the markers, keeping their aspect ratio when height is given.",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Output height in pixels. 0 derives it from the markers, keeping their aspect ratio when width is given.",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "pdf"},
						"description": "Output encoding (default: png)",
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "document_debug_mask",
			Description: "Render the binarized mask (markers white on black) with a colored square on " +
				"every marker candidate. Useful to see why detection rejected a photo.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "document_histogram",
			Description: "Chart the grayscale histogram of an image with the Otsu threshold marked, as a PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Chart width in pixels (default: 1024)",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Chart height in pixels (default: 512)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "document_ocr",
			Description: "Rectify the page and extract its text with Tesseract. An optional region " +
				"restricts OCR to a rectangle of the page; word bounds are always in page coordinates. " +
				"With rectify false, the loaded image is read as is.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (default: configured language, usually eng)",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Rectangle of the page to read",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"rectify": map[string]interface{}{
						"type":        "boolean",
						"description": "Rectify before reading (default: true). False reads the loaded image without marker detection.",
					},
				},
				"required": []string{"path"},
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
