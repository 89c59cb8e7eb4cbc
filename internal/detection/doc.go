// Package detection defines the contract between the coin counter and the
// object detector that finds coins in a photograph.
//
// The detector itself is an opaque collaborator: a pretrained model that, given
// a decoded image, returns bounding boxes with a class label and a confidence
// score. This package holds that contract (Detection, Detector), the errors an
// adapter may report, and the adapters shipped with the program:
//
//   - ONNX: a YOLO model evaluated in-process with OpenCV's DNN module (gocv).
//     Only compiled with the "gocv" build tag; without it NewONNX reports
//     ErrAdapterUnavailable.
//   - Remote: a model served over HTTP by an inference service that accepts a
//     multipart image upload and answers with JSON detections.
//   - Static: a fixed list of detections, replayed from memory or from a JSON
//     file. Used by tests and for re-rendering previously captured results.
//
// # Coordinate System
//
// Boxes use image pixel coordinates with the origin at the top-left corner.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner; a valid
// box has X1 < X2 and Y1 < Y2.
//
// # Thresholding
//
// Adapters apply their confidence threshold before returning. Callers never see
// a detection whose Confidence is below the configured minimum.
//
// # Errors
//
// ErrAdapterUnavailable marks failures to construct an adapter (missing model,
// unreachable service). ErrDetectionFailed marks a failure while processing a
// single image. Both are wrapped, so use errors.Is.
package detection
