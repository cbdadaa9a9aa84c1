package service

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const debugImageName = "debug_cropped_image.png"

// cropRatio is the side of the centered crop square relative to the shorter
// image dimension. This is a placeholder heuristic, not label detection.
const cropRatio = 0.8

type ImageService struct {
	uploadDir string
	logger    *zap.Logger
}

func NewImageService(uploadDir string, logger *zap.Logger) *ImageService {
	return &ImageService{
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// ProcessFile decodes the image at path, crops a centered square region and
// re-encodes it as PNG. With debug set, the crop is also written to a fixed
// path in the upload directory for inspection.
func (s *ImageService) ProcessFile(path string, debug bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rect := cropRect(bounds.Dx(), bounds.Dy())
	cropped := imaging.Crop(img, rect.Add(bounds.Min))

	// Sources that are not already PNG lose their alpha channel, matching
	// the canonical 3-channel encoding.
	var out image.Image = cropped
	if format != "png" {
		flat := image.NewRGBA(cropped.Bounds())
		draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), cropped, cropped.Bounds().Min, draw.Over)
		out = flat
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	if debug {
		debugPath := filepath.Join(s.uploadDir, debugImageName)
		if err := os.WriteFile(debugPath, buf.Bytes(), 0644); err != nil {
			s.logger.Warn("Failed to save debug image",
				zap.String("path", debugPath),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Saved debug image", zap.String("path", debugPath))
		}
	}

	s.logger.Info("Image processed",
		zap.String("file", path),
		zap.String("format", format),
		zap.Int("width", rect.Dx()),
		zap.Int("height", rect.Dy()),
	)

	return buf.Bytes(), nil
}

// cropRect computes the centered crop square for a w×h image, sized at
// cropRatio of the shorter dimension and clamped to the image bounds.
func cropRect(w, h int) image.Rectangle {
	centerX := float64(w) / 2
	centerY := float64(h) / 2

	cropSize := cropRatio * float64(min(w, h))

	left := int(centerX - cropSize/2)
	top := int(centerY - cropSize/2)
	right := int(centerX + cropSize/2)
	bottom := int(centerY + cropSize/2)

	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}
	if right > w {
		right = w
	}
	if bottom > h {
		bottom = h
	}

	return image.Rect(left, top, right, bottom)
}
