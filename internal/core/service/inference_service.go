package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

// InferenceService sequences ingestion and classification for a single
// request. Ingestion failure short-circuits; classification failure leaves
// the ingested asset on disk; it is still a valid received upload and
// cleanup is out of scope.
type InferenceService struct {
	ingester ports.UploadIngester
	invoker  ports.InferenceInvoker
	cache    ports.ResultCache // nil disables result caching
	log      zerolog.Logger
}

func NewInferenceService(ingester ports.UploadIngester, invoker ports.InferenceInvoker, cache ports.ResultCache, log zerolog.Logger) *InferenceService {
	return &InferenceService{ingester: ingester, invoker: invoker, cache: cache, log: log}
}

func (s *InferenceService) ClassifyUpload(ctx context.Context, input ports.UploadInput) (*ports.ClassifyResult, error) {
	asset, err := s.ingester.Ingest(ctx, input)
	if err != nil {
		return nil, err
	}

	// Identical content produces identical classifications, so results are
	// cached by content hash. Cache trouble never fails the request.
	var cacheKey string
	if s.cache != nil {
		cacheKey, err = contentHash(asset.StoragePath)
		if err != nil {
			s.log.Warn().Err(err).Str("asset", asset.StoredName).Msg("content hash failed, skipping cache")
			cacheKey = ""
		}
	}
	if cacheKey != "" {
		cached, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.log.Warn().Err(err).Msg("result cache lookup failed")
		} else if ok {
			s.log.Debug().Str("asset", asset.StoredName).Msg("classification served from cache")
			return &ports.ClassifyResult{AssetPath: publicPath(asset), Result: *cached}, nil
		}
	}

	result, err := s.invoker.Classify(ctx, asset)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			s.log.Warn().Err(err).Msg("result cache store failed")
		}
	}

	return &ports.ClassifyResult{AssetPath: publicPath(asset), Result: *result}, nil
}

// publicPath is the URL path the stored asset is served back under.
func publicPath(asset *domain.UploadedAsset) string {
	return "/uploads/" + asset.StoredName
}

func contentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash asset: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
