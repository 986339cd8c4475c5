// Package imaging validates, downsamples, and re-encodes uploaded images
// into a self-contained embeddable form.
//
// The admin panel stores avatar and project images inline in the aggregate
// as base64 data URIs — no file storage, no separate fetch. That only stays
// cheap if every upload is squeezed first: capped dimensions, JPEG
// re-encoding at a fixed quality, hard ceiling on the input size.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	// Register decoders with image.Decode. GIF and PNG come from the
	// standard library; WebP needs golang.org/x/image.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/adupont/portfolio/internal/apperror"
)

const (
	// DefaultMaxDimension caps the larger side of a processed image.
	DefaultMaxDimension = 800

	// maxFileSize is the hard ceiling on the raw upload (5 MiB).
	maxFileSize = 5 << 20

	// jpegQuality is the fixed re-encode quality (the original's 0.8).
	jpegQuality = 80
)

// allowedTypes is the declared-MIME allow-list, checked before any byte of
// the payload is decoded.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadResult is the outcome of a successful ingestion.
type UploadResult struct {
	// DataURL is the embeddable representation: data:image/jpeg;base64,...
	DataURL string `json:"dataUrl"`
	// Width and Height are the dimensions after any downscaling.
	Width  int `json:"width"`
	Height int `json:"height"`
	// OriginalSize is the raw upload size in bytes; EncodedSize is
	// estimated from the base64 text length (3 bytes per 4 chars).
	OriginalSize int `json:"originalSize"`
	EncodedSize  int `json:"compressedSize"`
}

// Service performs image ingestion. Stateless apart from the logger — safe
// for concurrent use.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Process validates and converts one upload. maxDimension <= 0 selects
// DefaultMaxDimension.
//
// Failure paths are values, never panics: validation problems come back as
// apperror.ErrValidation so the HTTP layer can report them as a 400 with a
// usable message.
func (s *Service) Process(data []byte, declaredType string, maxDimension int) (*UploadResult, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	// Cheap checks first — no decoding before the type and size gates.
	if !allowedTypes[declaredType] {
		return nil, apperror.ValidationFailed("image",
			fmt.Sprintf("unsupported image type %q — use JPEG, PNG, GIF, or WebP", declaredType))
	}
	if len(data) > maxFileSize {
		return nil, apperror.ValidationFailed("image",
			fmt.Sprintf("image is %d bytes, maximum is %d (5 MiB)", len(data), maxFileSize))
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.ValidationFailed("image", "image could not be decoded")
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	targetW, targetH := fitWithin(width, height, maxDimension)

	out := src
	if targetW != width || targetH != height {
		// CatmullRom is the slowest and best-looking of x/image's scalers.
		// Uploads are rare (one admin, one image at a time), so quality
		// wins over speed here.
		scaled := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		out = scaled

		s.logger.Info("image downscaled",
			slog.String("from", fmt.Sprintf("%dx%d", width, height)),
			slog.String("to", fmt.Sprintf("%dx%d", targetW, targetH)),
		)
	}

	// Always re-encode as JPEG at the fixed quality, whatever came in.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encoding jpeg: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	dataURL := "data:image/jpeg;base64," + encoded

	result := &UploadResult{
		DataURL:      dataURL,
		Width:        targetW,
		Height:       targetH,
		OriginalSize: len(data),
		EncodedSize:  len(encoded) * 3 / 4,
	}

	s.logger.Info("image processed",
		slog.String("format", format),
		slog.Int("originalBytes", result.OriginalSize),
		slog.Int("encodedBytes", result.EncodedSize),
	)
	return result, nil
}

// fitWithin shrinks (w, h) proportionally so the larger side equals max,
// rounding the other side. Images already within bounds pass through.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w > h {
		return max, int(float64(h)*float64(max)/float64(w) + 0.5)
	}
	return int(float64(w)*float64(max)/float64(h) + 0.5), max
}
