// Package detection locates the four fiducial markers of a photographed document.
//
// This package implements the front half of the rectification pipeline. Every
// stage is a pure function over explicitly passed buffers; nothing here reads
// files, decodes images or keeps state between calls.
//
// # Pipeline Stages
//
//  1. Grayscale: RGBA PixelBuffer -> GrayBuffer (BT.601 luma, rounded)
//  2. OtsuThreshold: GrayBuffer -> cut point maximizing between-class variance
//  3. Binarize: GrayBuffer + threshold -> BinaryMask (1 = ink)
//  4. Label: BinaryMask -> LabelMap + []Component (4-connected, union-find)
//  5. SelectMarkers: []Component -> 4 near-square components, ranked
//  6. OrderQuad: 4 centroids -> Quad in TL, TR, BR, BL order
//  7. PolygonArea: Quad -> shoelace area, used by the caller's area gate
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Component bounding boxes are inclusive on both ends
//
// # Marker Heuristics
//
// A component qualifies as a marker when its bounding box is larger than a
// small fraction of the image, its aspect ratio is close to 1 and it fills
// most of its bounding box. Survivors are ranked by distance from the image
// center, which favors markers printed at page corners. The ranking is a
// field of Criteria so other marker layouts can substitute their own.
//
// # Errors
//
// SelectMarkers and OrderQuad fail with classified errors from package
// failure (InsufficientMarkers, AmbiguousQuad). The other stages cannot fail.
//
// # Logging
//
// The package is silent unless SetLogger is called; it only emits debug
// records with component counts.
package detection
