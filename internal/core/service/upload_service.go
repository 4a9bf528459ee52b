package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

// allowedMIMETypes is the fixed whitelist of accepted upload types.
var allowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// UploadService validates inbound files against the media-type whitelist and
// size ceiling, then writes them durably to the upload directory. Stored
// files are later served back verbatim under /uploads by their stored name.
type UploadService struct {
	dir      string
	maxBytes int64
	log      zerolog.Logger
}

func NewUploadService(dir string, maxBytes int64, log zerolog.Logger) *UploadService {
	return &UploadService{dir: dir, maxBytes: maxBytes, log: log}
}

func (s *UploadService) Ingest(ctx context.Context, input ports.UploadInput) (*domain.UploadedAsset, error) {
	if _, ok := allowedMIMETypes[input.MIMEType]; !ok {
		return nil, domain.ErrUnsupportedMediaType
	}
	if input.SizeBytes > s.maxBytes {
		return nil, domain.ErrPayloadTooLarge
	}

	now := time.Now()
	name := storedName(now, input.OriginalName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	// The declared size is client-supplied; re-enforce the ceiling while
	// copying so an understated Content-Length cannot bypass it.
	written, err := io.Copy(f, io.LimitReader(input.Content, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return nil, domain.ErrPayloadTooLarge
	}

	s.log.Info().
		Str("stored_name", name).
		Str("original_name", input.OriginalName).
		Int64("size_bytes", written).
		Str("mime_type", input.MIMEType).
		Msg("upload stored")

	return &domain.UploadedAsset{
		StoragePath:  path,
		StoredName:   name,
		OriginalName: input.OriginalName,
		SizeBytes:    written,
		MIMEType:     input.MIMEType,
		ReceivedAt:   now,
	}, nil
}

// storedName prefixes the sanitized original name with the ingestion
// timestamp in milliseconds. Two same-named uploads within one millisecond
// collide and the last write wins; there is no lock.
func storedName(now time.Time, original string) string {
	base := sanitizeFilename(filepath.Base(original))
	if base == "" {
		base = uuid.NewString()
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// sanitizeFilename keeps letters, digits, dots, dashes, and underscores,
// replacing everything else. Names without a single safe rune come back
// empty and get a generated fallback.
func sanitizeFilename(name string) string {
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if strings.Trim(mapped, ".-_") == "" {
		return ""
	}
	return mapped
}
