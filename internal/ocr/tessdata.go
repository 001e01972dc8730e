package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

var (
	tessdataMu  sync.RWMutex
	tessdataDir string

	bundledOnce sync.Once
	bundledDir  string
)

// SetTessdataDir points Tesseract at a directory of *.traineddata files.
// An empty dir restores the default lookup: a tessdata directory next to the
// binary, then the system installation.
func SetTessdataDir(dir string) error {
	if dir != "" {
		langs, err := listLanguages(dir)
		if err != nil {
			return err
		}
		if len(langs) == 0 {
			return fmt.Errorf("no .traineddata files in %s", dir)
		}
	}

	tessdataMu.Lock()
	tessdataDir = dir
	tessdataMu.Unlock()
	return nil
}

// tessdataPrefix returns the directory handed to SetTessdataPrefix, or ""
// to let Tesseract use its compiled-in path.
func tessdataPrefix() string {
	tessdataMu.RLock()
	dir := tessdataDir
	tessdataMu.RUnlock()
	if dir != "" {
		return dir
	}

	bundledOnce.Do(func() {
		bundledDir = findBundledTessdata()
	})
	return bundledDir
}

// findBundledTessdata looks for a tessdata directory shipped next to the
// binary (symlinks resolved).
func findBundledTessdata() string {
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = resolved
	}

	dir := filepath.Join(filepath.Dir(exePath), "tessdata")
	if langs, err := listLanguages(dir); err != nil || len(langs) == 0 {
		return ""
	}
	return dir
}

// listLanguages returns the language codes with a model in dir, sorted.
func listLanguages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("tessdata directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tessdata path %s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.traineddata"))
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(matches))
	for _, m := range matches {
		langs = append(langs, strings.TrimSuffix(filepath.Base(m), ".traineddata"))
	}
	sort.Strings(langs)
	return langs, nil
}

// TesseractVersion returns the linked Tesseract library version.
func TesseractVersion() string {
	return gosseract.Version()
}

// OCRInfo describes the OCR subsystem as seen by this process.
type OCRInfo struct {
	Available    bool     `json:"available"`
	Version      string   `json:"version,omitempty"`
	Error        string   `json:"error,omitempty"`
	TessdataPath string   `json:"tessdata_path,omitempty"`
	Languages    []string `json:"languages,omitempty"`
}

// GetOCRInfo reports the Tesseract version and the installed languages.
func GetOCRInfo() OCRInfo {
	info := OCRInfo{
		Version:      TesseractVersion(),
		TessdataPath: tessdataPrefix(),
	}

	var err error
	if info.TessdataPath != "" {
		info.Languages, err = listLanguages(info.TessdataPath)
	} else {
		info.Languages, err = gosseract.GetAvailableLanguages()
	}

	switch {
	case err != nil:
		info.Error = err.Error()
	case info.Version == "":
		info.Error = "tesseract library not found"
	case len(info.Languages) == 0:
		info.Error = "no tesseract language data found"
	default:
		info.Available = true
	}
	return info
}
