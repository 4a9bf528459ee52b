package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

func TestUploadService_RejectsUnsupportedMediaType(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 1024, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), ports.UploadInput{
		Content:      strings.NewReader("%PDF-1.4"),
		OriginalName: "report.pdf",
		MIMEType:     "application/pdf",
		SizeBytes:    8,
	})
	if !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestUploadService_RejectsDeclaredOversize(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 1024, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), ports.UploadInput{
		Content:      strings.NewReader("x"),
		OriginalName: "scan.png",
		MIMEType:     "image/png",
		SizeBytes:    4096,
	})
	if !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestUploadService_RejectsActualOversize(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 16, zerolog.Nop())

	// Declared size lies; the stream is longer than the ceiling.
	_, err := svc.Ingest(context.Background(), ports.UploadInput{
		Content:      strings.NewReader(strings.Repeat("a", 64)),
		OriginalName: "scan.png",
		MIMEType:     "image/png",
		SizeBytes:    8,
	})
	if !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("oversized upload must be removed, found %d files", len(entries))
	}
}

func TestUploadService_StoresAcceptedUpload(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 1024, zerolog.Nop())

	asset, err := svc.Ingest(context.Background(), ports.UploadInput{
		Content:      strings.NewReader("fake image bytes"),
		OriginalName: "brain scan.png",
		MIMEType:     "image/png",
		SizeBytes:    16,
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if !strings.HasSuffix(asset.StoredName, "-brain-scan.png") {
		t.Fatalf("unexpected stored name: %s", asset.StoredName)
	}
	if asset.SizeBytes != 16 || asset.MIMEType != "image/png" {
		t.Fatalf("unexpected asset: %+v", asset)
	}
	if asset.StoragePath != filepath.Join(dir, asset.StoredName) {
		t.Fatalf("unexpected storage path: %s", asset.StoragePath)
	}

	content, err := os.ReadFile(asset.StoragePath)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(content) != "fake image bytes" {
		t.Fatalf("stored content mismatch: %q", content)
	}
}

func TestUploadService_UnsafeNameIsSanitized(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 1024, zerolog.Nop())

	asset, err := svc.Ingest(context.Background(), ports.UploadInput{
		Content:      strings.NewReader("x"),
		OriginalName: "描述.png",
		MIMEType:     "image/png",
		SizeBytes:    1,
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if strings.ContainsAny(asset.StoredName, "描述") {
		t.Fatalf("unsafe runes leaked into stored name: %s", asset.StoredName)
	}
}

func TestStoredName_EmptyOriginal(t *testing.T) {
	name := storedName(time.Now(), "")
	parts := strings.SplitN(name, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("expected generated fallback name, got %s", name)
	}
}
