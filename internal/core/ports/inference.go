package ports

import (
	"context"
	"io"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

// UploadInput is the DTO passed from the transport layer to the ingester.
// SizeBytes is the declared size from the multipart header; the ingester
// additionally re-enforces the ceiling while copying the stream.
type UploadInput struct {
	Content      io.Reader
	OriginalName string
	MIMEType     string
	SizeBytes    int64
}

// UploadIngester validates an inbound file against the media-type whitelist
// and size ceiling, then writes it durably to the upload directory.
type UploadIngester interface {
	Ingest(ctx context.Context, input UploadInput) (*domain.UploadedAsset, error)
}

// InferenceInvoker runs the external worker process against a stored asset
// and maps the process outcome to a result or a domain error.
type InferenceInvoker interface {
	Classify(ctx context.Context, asset *domain.UploadedAsset) (*domain.InferenceResult, error)
}

// ResultCache stores classification results keyed by asset content hash.
// Implementations must treat misses and backend failures as distinct: a
// backend failure is returned so the caller can log it, but callers never
// fail a request over it.
type ResultCache interface {
	Get(ctx context.Context, key string) (*domain.InferenceResult, bool, error)
	Set(ctx context.Context, key string, result *domain.InferenceResult) error
}

// ClassifyResult is returned by the inference service after a successful
// upload-and-classify round trip.
type ClassifyResult struct {
	// AssetPath is the public path the stored file is served back under.
	AssetPath string
	Result    domain.InferenceResult
}

// InferenceService sequences ingestion and classification for one request.
type InferenceService interface {
	ClassifyUpload(ctx context.Context, input UploadInput) (*ClassifyResult, error)
}
