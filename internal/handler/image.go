package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/adupont/portfolio/internal/imaging"
)

// maxUploadBytes caps how much of a request body we read. It sits slightly
// above the imaging package's own file-size ceiling so an oversized file is
// rejected by the pipeline with a proper validation error instead of a
// connection reset mid-upload.
const maxUploadBytes = 6 << 20

// ImageHandler ingests image uploads and returns inline data URIs ready to
// be stored in profile, project or article fields.
type ImageHandler struct {
	images *imaging.Service
	logger *slog.Logger
}

func NewImageHandler(images *imaging.Service, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		images: images,
		logger: logger,
	}
}

// HandleUpload processes one uploaded image.
//
// HTTP: POST /api/admin/images
// Auth: Required (RequireAdmin middleware)
//
// ACCEPTED SHAPES:
//   - multipart/form-data with an "image" file field (what browsers send)
//   - a raw image body with its Content-Type header (handy for curl)
//
// An optional maxDimension query parameter overrides the 800px default.
// The response carries the re-encoded JPEG as a data URI plus size figures.
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	maxDimension := imaging.DefaultMaxDimension
	if v := r.URL.Query().Get("maxDimension"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "maxDimension must be a positive integer"})
			return
		}
		maxDimension = n
	}

	data, declaredType, err := readUpload(r)
	if err != nil {
		h.logger.Warn("image upload read failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "could not read uploaded image"})
		return
	}

	result, err := h.images.Process(data, declaredType, maxDimension)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// readUpload extracts the image bytes and declared MIME type from either a
// multipart form or a raw body.
func readUpload(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, header.Header.Get("Content-Type"), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
