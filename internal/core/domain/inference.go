package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnsupportedMediaType = errors.New("unsupported media type")
var ErrPayloadTooLarge = errors.New("payload too large")
var ErrWorkerExecution = errors.New("worker execution failed")
var ErrMalformedOutput = errors.New("malformed worker output")

// WorkerError is returned when the worker process exits cleanly but reports
// a failure in its JSON payload. The message is worker-supplied.
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker reported error: %s", e.Message)
}

// UploadedAsset describes a file accepted by the ingester and written to the
// upload directory. Assets are never garbage-collected; a failed
// classification leaves its asset on disk.
type UploadedAsset struct {
	StoragePath  string
	StoredName   string
	OriginalName string
	SizeBytes    int64
	MIMEType     string
	ReceivedAt   time.Time
}

// InferenceResult is the classification produced by the worker for a single
// asset. Confidence is in [0, 1]. Results are transient; they are not
// persisted beyond an optional short-lived cache entry.
type InferenceResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
