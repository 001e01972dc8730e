// Package failure defines the classified errors a rectification run can end with.
//
// Every gate of the pipeline either returns a usable value or one of the
// errors built here. Callers branch on the Code (see CodeOf) and show the
// short Status string to users.
package failure

import (
	"errors"
	"fmt"
)

// Code identifies which gate of the pipeline rejected the input.
type Code string

const (
	// InsufficientMarkers: fewer than four square components survived filtering.
	InsufficientMarkers Code = "INSUFFICIENT_MARKERS"

	// QuadTooSmall: the marker quadrilateral covers too little of the image.
	QuadTooSmall Code = "QUAD_TOO_SMALL"

	// DegenerateTransform: the homography or its inverse is numerically singular.
	DegenerateTransform Code = "DEGENERATE_TRANSFORM"

	// AmbiguousQuad: corner ordering selected the same marker for two corners.
	AmbiguousQuad Code = "AMBIGUOUS_QUAD"

	// InvalidInput: buffers or target sizes are inconsistent.
	InvalidInput Code = "INVALID_INPUT"
)

// Error is a classified pipeline failure.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status returns the short human-readable reason shown to end users.
func (e *Error) Status() string {
	switch e.Code {
	case InsufficientMarkers:
		return fmt.Sprintf("Invalid: only %v square(s) found", e.Details["count"])
	case QuadTooSmall:
		return "Invalid: quadrilateral too small (document too far from the camera)"
	case DegenerateTransform:
		return "Invalid: markers do not define a usable perspective"
	case AmbiguousQuad:
		return "Invalid: marker corners are ambiguous"
	default:
		return "Invalid: " + e.Message
	}
}

// ToMap flattens the error for JSON responses.
func (e *Error) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"code":    string(e.Code),
		"message": e.Message,
		"status":  e.Status(),
	}
	for k, v := range e.Details {
		result[k] = v
	}
	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}
	return result
}

// NewInsufficientMarkers reports that only count markers qualified.
func NewInsufficientMarkers(count int) *Error {
	return &Error{
		Code:    InsufficientMarkers,
		Message: fmt.Sprintf("found %d qualifying square marker(s), need 4", count),
		Details: map[string]interface{}{
			"count": count,
		},
	}
}

// NewQuadTooSmall reports a quadrilateral covering ratio of the image when at
// least minRatio is required.
func NewQuadTooSmall(ratio, minRatio float64) *Error {
	return &Error{
		Code:    QuadTooSmall,
		Message: fmt.Sprintf("quadrilateral covers %.1f%% of the image, minimum is %.1f%%", ratio*100, minRatio*100),
		Details: map[string]interface{}{
			"area_ratio": ratio,
			"min_ratio":  minRatio,
		},
	}
}

// NewDegenerateTransform reports a singular system in the named stage
// ("estimate" or "invert").
func NewDegenerateTransform(stage string) *Error {
	return &Error{
		Code:    DegenerateTransform,
		Message: fmt.Sprintf("homography is singular during %s", stage),
		Details: map[string]interface{}{
			"stage": stage,
		},
	}
}

// NewAmbiguousQuad reports that two corners resolved to the same point.
func NewAmbiguousQuad(first, second string) *Error {
	return &Error{
		Code:    AmbiguousQuad,
		Message: fmt.Sprintf("corners %s and %s resolve to the same marker", first, second),
		Details: map[string]interface{}{
			"corners": []string{first, second},
		},
	}
}

// NewInvalidInput reports malformed input buffers or sizes.
func NewInvalidInput(format string, args ...interface{}) *Error {
	return &Error{
		Code:    InvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
