package rectify

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
	"github.com/ironsheep/docrectify-mcp/internal/failure"
	"github.com/ironsheep/docrectify-mcp/internal/logging"
)

// StatusValid is the status reported by a run that produced a raster.
const StatusValid = "Valid: 4 markers detected and warp complete"

// Options configures a Pipeline.
type Options struct {
	// Criteria filters and ranks marker candidates.
	Criteria detection.Criteria

	// MinQuadAreaFraction is the smallest share of the image the marker
	// quadrilateral may cover.
	MinQuadAreaFraction float64

	// Invert selects dark-on-light markers (foreground iff v <= threshold).
	Invert bool

	// TargetWidth and TargetHeight fix the output size. A zero side is
	// derived from the quad (see CompleteSize); both zero uses TargetSize
	// and SizeLimits.
	TargetWidth  int
	TargetHeight int
	SizeLimits   SizeLimits

	// AllowDegenerate continues with a near-singular transform (logging a
	// warning) instead of failing with DEGENERATE_TRANSFORM.
	AllowDegenerate bool

	// KeepMask retains the binary mask in the result for diagnostics.
	KeepMask bool

	Logger *slog.Logger
}

// DefaultOptions returns the standard configuration for dark square markers.
func DefaultOptions() Options {
	return Options{
		Criteria:            detection.DefaultCriteria(),
		MinQuadAreaFraction: 0.06,
		Invert:              true,
		SizeLimits:          DefaultSizeLimits(),
	}
}

// Detection holds the outcome of the analysis stages, up to and including
// the area gate.
type Detection struct {
	Threshold  int                   `json:"threshold"`
	Histogram  [256]int              `json:"-"`
	Components int                   `json:"components"`
	Foreground int                   `json:"foreground_pixels"`
	Markers    []detection.Component `json:"markers,omitempty"`
	Centroids  []detection.Point     `json:"centroids,omitempty"`

	// Quad is only meaningful when HasQuad is set.
	Quad          detection.Quad `json:"quad"`
	HasQuad       bool           `json:"has_quad"`
	QuadArea      float64        `json:"quad_area"`
	QuadAreaRatio float64        `json:"quad_area_ratio"`

	Mask *detection.BinaryMask `json:"-"`
}

// Metrics summarizes a successful run.
type Metrics struct {
	QuadAreaPercent float64 `json:"quad_area_percent"`
	TargetWidth     int     `json:"target_width"`
	TargetHeight    int     `json:"target_height"`
}

// String formats the metrics for display.
func (m Metrics) String() string {
	return fmt.Sprintf("Quad area: %.1f%% | Target size: %d x %dpx",
		m.QuadAreaPercent, m.TargetWidth, m.TargetHeight)
}

// Result is the outcome of a pipeline run. Raster is empty unless the run
// succeeded.
type Result struct {
	RunID string `json:"run_id"`
	Detection

	Homography Homography `json:"homography"`
	Inverse    Homography `json:"-"`
	Degenerate bool       `json:"degenerate"`

	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Raster detection.PixelBuffer `json:"-"`

	Status  string  `json:"status"`
	Metrics Metrics `json:"metrics"`
}

// Pipeline runs marker detection and rectification with fixed options.
// A Pipeline is immutable and safe for concurrent use.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// New creates a pipeline. Zero-valued option fields fall back to defaults.
func New(opts Options) *Pipeline {
	def := DefaultOptions()
	if opts.MinQuadAreaFraction <= 0 {
		opts.MinQuadAreaFraction = def.MinQuadAreaFraction
	}
	if opts.Criteria.MinAreaFraction == 0 && opts.Criteria.MaxAspect == 0 && opts.Criteria.MinFill == 0 {
		rank := opts.Criteria.Rank
		opts.Criteria = def.Criteria
		if rank != nil {
			opts.Criteria.Rank = rank
		}
	}
	if opts.SizeLimits == (SizeLimits{}) {
		opts.SizeLimits = def.SizeLimits
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Detect runs stages one to seven: grayscale, threshold, binarize, label,
// select, order and the area gate.
//
// The returned Detection is never nil and carries whatever was computed
// before a failure, so callers can render diagnostics for rejected images.
func (p *Pipeline) Detect(src detection.PixelBuffer) (*Detection, error) {
	return p.detect(src, p.logger)
}

func (p *Pipeline) detect(src detection.PixelBuffer, log *slog.Logger) (*Detection, error) {
	det := &Detection{}
	if err := src.Validate(); err != nil {
		return det, &failure.Error{Code: failure.InvalidInput, Message: err.Error(), Cause: err}
	}

	gray := detection.Grayscale(src)
	det.Histogram = detection.Histogram(gray)
	det.Threshold = detection.OtsuFromHistogram(det.Histogram)

	mask := detection.Binarize(gray, det.Threshold, p.opts.Invert)
	det.Foreground = mask.Count()
	if p.opts.KeepMask {
		det.Mask = &mask
	}

	_, components := detection.Label(mask)
	det.Components = len(components)

	log.Debug("binarized",
		"threshold", det.Threshold,
		"foreground", det.Foreground,
		"components", det.Components)

	markers, err := detection.SelectMarkers(components, src.Width, src.Height, p.opts.Criteria)
	if err != nil {
		// Keep the qualifying candidates for the debug overlay
		for _, c := range components {
			if p.opts.Criteria.Qualifies(c, src.Width, src.Height) {
				det.Markers = append(det.Markers, c)
			}
		}
		det.Centroids = detection.Centroids(det.Markers)
		return det, err
	}
	det.Markers = markers
	det.Centroids = detection.Centroids(markers)

	var pts [4]detection.Point
	copy(pts[:], det.Centroids)
	quad, err := detection.OrderQuad(pts)
	if err != nil {
		return det, err
	}
	det.Quad = quad
	det.HasQuad = true

	imageArea := float64(src.Width) * float64(src.Height)
	det.QuadArea = detection.PolygonArea(quad)
	det.QuadAreaRatio = det.QuadArea / imageArea

	if det.QuadArea < p.opts.MinQuadAreaFraction*imageArea {
		return det, failure.NewQuadTooSmall(det.QuadAreaRatio, p.opts.MinQuadAreaFraction)
	}
	return det, nil
}

// Run executes the full pipeline on src.
//
// The returned Result is never nil. On failure it carries the partial
// detection and the failure's status string, the error is a *failure.Error
// and Raster is empty.
func (p *Pipeline) Run(src detection.PixelBuffer) (*Result, error) {
	runID := uuid.New().String()
	log := p.logger.With("run_id", runID)
	res := &Result{RunID: runID}

	log.Info("rectify started", "width", src.Width, "height", src.Height)

	det, err := p.detect(src, log)
	res.Detection = *det
	if err != nil {
		return p.fail(log, res, err)
	}

	width, height := p.opts.TargetWidth, p.opts.TargetHeight
	if width < 0 || height < 0 {
		return p.fail(log, res, failure.NewInvalidInput("invalid target size %dx%d", width, height))
	}
	width, height = CompleteSize(det.Quad, width, height, p.opts.SizeLimits)
	res.Width, res.Height = width, height

	h, singular := EstimateHomography(det.Quad, width, height)
	res.Homography = h
	if singular {
		if !p.opts.AllowDegenerate {
			return p.fail(log, res, failure.NewDegenerateTransform("estimate"))
		}
		log.Warn("near-singular homography, continuing", "stage", "estimate")
		res.Degenerate = true
	}

	inv, singular := h.Inverse()
	res.Inverse = inv
	if singular {
		if !p.opts.AllowDegenerate {
			return p.fail(log, res, failure.NewDegenerateTransform("invert"))
		}
		log.Warn("near-singular homography, continuing", "stage", "invert")
		res.Degenerate = true
	}

	res.Raster = Warp(src, inv, width, height)
	res.Status = StatusValid
	res.Metrics = Metrics{
		QuadAreaPercent: math.Round(det.QuadAreaRatio*1000) / 10,
		TargetWidth:     width,
		TargetHeight:    height,
	}

	log.Info("rectify complete",
		"quad_area_percent", res.Metrics.QuadAreaPercent,
		"target_width", width,
		"target_height", height,
		"degenerate", res.Degenerate)

	return res, nil
}

func (p *Pipeline) fail(log *slog.Logger, res *Result, err error) (*Result, error) {
	res.Status = err.Error()
	var fe *failure.Error
	if errors.As(err, &fe) {
		res.Status = fe.Status()
	}
	log.Info("rectify rejected", "code", failure.CodeOf(err), "status", res.Status)
	return res, err
}
