// Package ocr reads the text of rectified pages with Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Rectified
// pages are fronto-parallel and evenly scaled, which is what Tesseract expects,
// so OCR is offered as the last step after rectification.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// A tessdata directory next to the binary, or one set with SetTessdataDir,
// takes precedence over the system language data. GetOCRInfo reports which
// directory and languages are in use.
//
// # Functions
//
//   - ExtractImage: OCR of a whole in-memory image (no temporary files)
//   - ExtractRegion: OCR of a rectangle, with bounds in page coordinates
//
// # Error Handling
//
// If word-level bounding box extraction fails (e.g., Tesseract version
// mismatch), the functions still return the extracted text with an empty
// Regions slice.
package ocr
