package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neuroscan/scan-api/internal/api/metrics"
	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

// uploadField is the multipart form field the image arrives in.
const uploadField = "image"

type InferenceHandler struct {
	service ports.InferenceService
}

func NewInferenceHandler(service ports.InferenceService) *InferenceHandler {
	return &InferenceHandler{service: service}
}

type classifyResponse struct {
	Success   bool                   `json:"success"`
	AssetPath string                 `json:"assetPath"`
	Result    domain.InferenceResult `json:"result"`
}

// Classify ingests an uploaded image and runs the inference worker on it.
// No session is required.
//
// @Summary      Upload an MRI image and classify it
// @Tags         inference
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file (JPEG, PNG, or GIF)"
// @Success      200  {object}  classifyResponse
// @Failure      400  {object}  map[string]any
// @Failure      413  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /inference/classify [post]
func (h *InferenceHandler) Classify(c echo.Context) error {
	file, err := c.FormFile(uploadField)
	if err != nil {
		metrics.UploadsRejectedTotal.WithLabelValues("missing_file").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open multipart file: %w", err)
	}
	defer src.Close()

	result, err := h.service.ClassifyUpload(c.Request().Context(), ports.UploadInput{
		Content:      src,
		OriginalName: file.Filename,
		MIMEType:     file.Header.Get(echo.HeaderContentType),
		SizeBytes:    file.Size,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedMediaType):
			metrics.UploadsRejectedTotal.WithLabelValues("media_type").Inc()
		case errors.Is(err, domain.ErrPayloadTooLarge):
			metrics.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
		}
		return err
	}

	return c.JSON(http.StatusOK, classifyResponse{
		Success:   true,
		AssetPath: result.AssetPath,
		Result:    result.Result,
	})
}
