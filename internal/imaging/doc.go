// Package imaging implements the pixel-level engines of the generation
// pipeline: ink normalization, geometric transforms, recoloring,
// texture application, and background compositing.
//
// # Ink Representation
//
// Glyphs travel through the geometry stages as *image.Gray "ink"
// buffers: background pixels are exactly 0 and foreground intensity is
// greater than 0, regardless of whether the source file used white
// paper with dark strokes or a transparent background. Every transform
// fills newly exposed border area with 0, preserving that invariant.
//
// # Derived Alpha
//
// Colored buffers are *image.NRGBA whose alpha byte always mirrors
// max(R, G, B) at the moment color is applied. Compositing reads that
// stored byte; it is never recomputed from any other formula. Changing
// the max-channel rule would change every composited pixel, so output
// compatibility depends on keeping it exact.
//
// # Canvas Fit
//
// Rotation and per-glyph perspective grow and offset their output
// canvas so no transformed content is clipped. Composite perspective
// and shear intentionally keep the canvas fixed and may clip; the two
// perspective variants are distinct code paths with distinct shift
// formulas (see Perspective and CompositePerspective).
package imaging
