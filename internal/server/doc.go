// Package server implements the MCP (Model Context Protocol) server for
// document rectification.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_release: Drop one or all images from the cache
//   - document_detect_markers: Threshold, marker centroids and ordered quad
//   - document_rectify: Full pipeline, returns PNG, JPEG or PDF
//   - document_debug_mask: Binary mask with the marker candidates highlighted
//   - document_histogram: Grayscale histogram chart with the Otsu threshold
//   - document_ocr: Rectify (optionally skipped), then read the page with Tesseract
//
// # Image Caching
//
// Decoded (and downscaled) images are cached by path for the lifetime of the
// process, so detecting, rendering diagnostics and rectifying the same photo
// decodes it once. image_release drops entries when a file changes on disk or
// memory matters.
//
// # Error Handling
//
// A document the pipeline rejects is a normal tool result with "valid":
// false, the failure code (INSUFFICIENT_MARKERS, QUAD_TOO_SMALL, ...) and a
// short status line. Everything else (unreadable file, bad arguments,
// encoder errors) is a JSON-RPC error response with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
