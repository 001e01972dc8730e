// Package imaging handles everything around the rectification pipeline that
// touches real image files: decoding, conversion and encoding.
//
// # Acquisition
//
// ImageCache decodes PNG, JPEG, GIF, BMP, TIFF and WebP files, applies the
// EXIF orientation and shrinks photographs whose longer side exceeds a limit
// (DefaultMaxDimension unless configured). ToPixelBuffer turns any decoded
// image into the RGBA buffer consumed by package rectify.
//
// # Output
//
// Encode and EncodeRaster serialize rectified pages as PNG, JPEG or a single
// page PDF sized to the raster. Results are either returned base64-encoded
// or written to a file.
//
// # Diagnostics
//
//   - RenderDiagnostic: binary mask white-on-black with a colored square on
//     each detected marker centroid
//   - HistogramChart: grayscale histogram with the Otsu threshold marked
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their inputs, except that ToImage shares the
// buffer's pixel slice.
//
// # Performance Considerations
//
// Cached images are held at their downscaled size. Use Evict() or Clear() to
// release memory in long-running processes.
package imaging
