package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// Output formats accepted by Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
)

// jpegQuality keeps printed text crisp at a moderate size.
const jpegQuality = 92

// pdfDPI maps raster pixels to PDF points (72 per inch).
const pdfDPI = 150

// RasterResult contains an encoded image ready to be returned to a client.
type RasterResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
	Path        string `json:"path,omitempty"`
	SizeBytes   int    `json:"size_bytes"`
}

// NormalizeFormat maps user spellings ("jpg", "PNG", ".pdf") to a format
// constant. An empty string means PNG.
func NormalizeFormat(format string) (string, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".") {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	return NormalizeFormat(filepath.Ext(path))
}

// Encode serializes img in the given format and returns the bytes and MIME
// type.
func Encode(img image.Image, format string) ([]byte, string, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	case FormatPDF:
		if err := encodePDF(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "application/pdf", nil
	default:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("failed to encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
}

// encodePDF writes a single-page PDF sized to the image.
func encodePDF(buf *bytes.Buffer, img image.Image) error {
	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode page image: %w", err)
	}

	b := img.Bounds()
	w := pxToPt(b.Dx())
	h := pxToPt(b.Dy())

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCreator("docrectify", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, &png)
	pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")

	if err := pdf.Output(buf); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// pxToPt converts a pixel count into PDF points at pdfDPI.
func pxToPt(px int) float64 {
	return float64(px) * 72 / pdfDPI
}

// EncodeRaster encodes a pipeline raster and, when path is not empty, also
// writes it to disk. The base64 payload is omitted when the file was written.
func EncodeRaster(buf detection.PixelBuffer, format, path string) (*RasterResult, error) {
	data, mime, err := Encode(ToImage(buf), format)
	if err != nil {
		return nil, err
	}

	result := &RasterResult{
		Width:     buf.Width,
		Height:    buf.Height,
		MimeType:  mime,
		SizeBytes: len(data),
	}

	if path == "" {
		result.ImageBase64 = base64.StdEncoding.EncodeToString(data)
		return result, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	result.Path = path
	return result, nil
}
