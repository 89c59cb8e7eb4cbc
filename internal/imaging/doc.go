// Package imaging loads coin photographs and renders their annotations.
//
// The central operation is Annotate, which draws each detection's bounding box
// and a "<label> <confidence>%" caption onto a copy of the source image. All
// overlay sizes derive from one scale factor, max(1, width/1000), so boxes and
// captions stay legible on large photographs without dominating small ones.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y downward. Annotated images always have their origin at (0,0).
//
// # Off-canvas Drawing
//
// Captions are placed directly above their box. When a box touches the top of
// the image the caption extends past the edge and is clipped there; it is not
// moved inside the image.
//
// # Display
//
// FitHeight resizes an image to a fixed viewport height with Lanczos
// resampling; EncodePNG prepares an image for JSON transport.
//
// # Error Handling
//
// Load rejects anything but JPEG and PNG with ErrUnsupportedFormat. Annotate
// never fails because of detection content: unknown labels are drawn in the
// fallback colour and boxes outside the image are clipped.
package imaging
