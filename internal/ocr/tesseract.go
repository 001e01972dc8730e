package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this word in the page.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from a page.
type OCRResult struct {
	// FullText is all recognized text with original spacing/newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes and confidence scores.
	// May be empty if bounding box extraction fails (text will still be in FullText).
	Regions []TextRegion `json:"regions"`

	// MeanConfidence averages the word confidences (0 when there are none).
	MeanConfidence float64 `json:"mean_confidence"`
}

// ExtractImage performs OCR on an in-memory image, typically a rectified
// page. The image is handed to Tesseract as PNG bytes; no temporary file is
// written.
func ExtractImage(img image.Image, language string) (*OCRResult, error) {
	return ExtractRegion(img, img.Bounds(), language)
}

// ExtractRegion performs OCR on a rectangle of img.
//
// Word bounds are reported in img's coordinates: a word found at (10, 20)
// inside a region starting at (100, 50) is returned at (110, 70).
func ExtractRegion(img image.Image, region image.Rectangle, language string) (*OCRResult, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("OCR region %v does not overlap the image %v", region, img.Bounds())
	}

	var sub image.Image = img
	if region != img.Bounds() {
		sub = imaging.Crop(img, region)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, sub, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode page for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return recognize(client, language, region.Min)
}

// recognize runs text and word-box extraction on a prepared client, shifting
// the word bounds by offset.
func recognize(client *gosseract.Client, language string, offset image.Point) (*OCRResult, error) {
	if language == "" {
		language = DefaultLanguage
	}
	if prefix := tessdataPrefix(); prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Return just text if boxes fail
		return &OCRResult{
			FullText: text,
			Regions:  []TextRegion{},
		}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	total := 0.0
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		confidence := float64(box.Confidence) / 100.0
		total += confidence
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: confidence,
			Bounds: Bounds{
				X1: box.Box.Min.X + offset.X,
				Y1: box.Box.Min.Y + offset.Y,
				X2: box.Box.Max.X + offset.X,
				Y2: box.Box.Max.Y + offset.Y,
			},
		})
	}

	result := &OCRResult{
		FullText: text,
		Regions:  regions,
	}
	if len(regions) > 0 {
		result.MeanConfidence = total / float64(len(regions))
	}
	return result, nil
}
