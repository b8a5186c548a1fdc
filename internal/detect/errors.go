package detect

import "errors"

// ErrNilRecognizer is returned when an NERDetector has no recognizer.
var ErrNilRecognizer = errors.New("detect: recognizer is nil")
