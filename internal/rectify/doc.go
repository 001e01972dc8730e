// Package rectify turns a photographed page into a fronto-parallel raster.
//
// It estimates the projective transform that maps the four marker centroids
// found by package detection onto the corners of an output rectangle, then
// resamples the photograph through the inverse transform. Pipeline drives the
// whole chain, from the RGBA input buffer to the output raster.
//
// # Transform
//
// EstimateHomography solves the 8x8 direct linear transform system with
// Gauss-Jordan elimination. Exactly-zero pivots, determinants and
// homogeneous w values are replaced by Epsilon so the math stays finite;
// whether that happened (or a pivot was merely tiny) is reported to the
// caller, and Options.AllowDegenerate decides whether to continue.
//
// # Thread Safety
//
// A Pipeline is immutable after New and may be shared by goroutines. Every
// Run allocates its own buffers and never mutates the input.
package rectify
