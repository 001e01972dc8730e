package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultMaxDimension is the longest side, in pixels, a photograph is
// reduced to before marker detection.
const DefaultMaxDimension = 3400

// ImageCache provides thread-safe caching of decoded photographs to avoid
// redundant disk reads and downscaling.
//
// Entries are keyed by file path. Images are decoded with EXIF orientation
// applied (phone cameras usually store portrait pages rotated) and, when a
// maximum dimension is set, shrunk so that their longer side fits it.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// For long-running processes handling many images, consider periodic cleanup to
// prevent unbounded memory growth.
type ImageCache struct {
	mu           sync.RWMutex
	images       map[string]image.Image
	maxDimension int
}

// NewImageCache creates an empty cache that downscales images to
// DefaultMaxDimension.
func NewImageCache() *ImageCache {
	return NewImageCacheWithLimit(DefaultMaxDimension)
}

// NewImageCacheWithLimit creates an empty cache that downscales images whose
// longer side exceeds maxDimension. Zero or a negative value disables
// downscaling.
func NewImageCacheWithLimit(maxDimension int) *ImageCache {
	return &ImageCache{
		images:       make(map[string]image.Image),
		maxDimension: maxDimension,
	}
}

// MaxDimension returns the downscale limit of the cache (0 when disabled).
func (c *ImageCache) MaxDimension() int {
	if c.maxDimension < 0 {
		return 0
	}
	return c.maxDimension
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns:
//   - image.Image: The decoded, oriented and possibly downscaled image.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = Downscale(img, c.MaxDimension())

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path and reports
// whether it was cached.
//
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) bool {
	c.mu.Lock()
	_, ok := c.images[path]
	delete(c.images, path)
	c.mu.Unlock()
	return ok
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Downscale shrinks img so that neither side exceeds maxDimension, keeping
// the aspect ratio. Images already within the limit, or a non-positive limit,
// return img unchanged.
func Downscale(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDimension && b.Dy() <= maxDimension {
		return img
	}
	return imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width and Height are the dimensions the pipeline works on, after
	// orientation and downscaling.
	Width  int `json:"width"`
	Height int `json:"height"`

	// OriginalWidth and OriginalHeight are the full-resolution dimensions
	// in display orientation, before downscaling.
	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`

	// Rotated reports that the EXIF orientation turned the stored pixels by
	// a quarter turn, swapping width and height.
	Rotated bool `json:"rotated"`

	// Downscaled reports whether the cache shrank the image.
	Downscaled bool `json:"downscaled"`

	// Format is the decoded format: "png", "jpeg", "gif", "bmp", "tiff",
	// "webp", or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// The format and original size are read from the file header, so they
// reflect the file even when the cached copy was reduced. The header size
// ignores EXIF orientation; it is swapped when the oriented image's aspect
// disagrees with it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if format == "" {
		format = formatFromExtension(path)
	}

	bounds := img.Bounds()
	longest := cfg.Width
	if cfg.Height > longest {
		longest = cfg.Height
	}
	limit := cache.MaxDimension()

	origW, origH := cfg.Width, cfg.Height
	rotated := bounds.Dx() != bounds.Dy() && origW != origH &&
		(bounds.Dx() < bounds.Dy()) != (origW < origH)
	if rotated {
		origW, origH = origH, origW
	}

	return &ImageInfo{
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		OriginalWidth:  origW,
		OriginalHeight: origH,
		Rotated:        rotated,
		Downscaled:     limit > 0 && longest > limit,
		Format:         format,
		FileSizeBytes:  stat.Size(),
	}, nil
}

// formatFromExtension guesses the format from the file name.
func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
