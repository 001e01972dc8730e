package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_release",
		"document_detect_markers",
		"document_rectify",
		"document_debug_mask",
		"document_histogram",
		"document_ocr",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if _, ok := props["path"]; !ok {
				t.Error("Tool should take a 'path' parameter")
			}
			if tool.Name == "image_release" {
				if len(required) != 0 {
					t.Errorf("image_release should not require parameters, got %v", required)
				}
				return
			}
			hasPath := false
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no property", r)
				}
				if r == "path" {
					hasPath = true
				}
			}
			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_RectifyFormats(t *testing.T) {
	var rectify Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "document_rectify" {
			rectify = tool
		}
	}
	if rectify.Name == "" {
		t.Fatal("document_rectify tool not found")
	}

	props := rectify.InputSchema["properties"].(map[string]interface{})
	format, ok := props["format"].(map[string]interface{})
	if !ok {
		t.Fatal("document_rectify should have a format property")
	}
	enum, ok := format["enum"].([]string)
	if !ok {
		t.Fatal("format enum should be a string slice")
	}

	want := map[string]bool{"png": true, "jpeg": true, "pdf": true}
	for _, f := range enum {
		delete(want, f)
	}
	for missing := range want {
		t.Errorf("format enum missing %s", missing)
	}
}

func TestToolDefinitions_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("tool %v missing inputSchema key", tool["name"])
		}
	}
}
