package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"labelscan/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrImageProcessing covers decode/crop/encode failures and failed
	// uploads of the processed image to the model's file store.
	ErrImageProcessing = errors.New("image processing failed")

	// ErrModelResponse means the model returned no usable completion.
	ErrModelResponse = errors.New("no response from model")
)

// LabelService runs the request pipeline: save the upload, crop and re-encode
// it, resolve context, build the prompt, call the model and normalize its
// answer. Each request works on uniquely named scratch files under uploadDir
// and removes them before returning, success or failure.
type LabelService struct {
	imageService *ImageService
	geoService   *GeoService
	llmService   *LLMService
	uploadDir    string
	logger       *zap.Logger
}

func NewLabelService(
	imageService *ImageService,
	geoService *GeoService,
	llmService *LLMService,
	uploadDir string,
	logger *zap.Logger,
) *LabelService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &LabelService{
		imageService: imageService,
		geoService:   geoService,
		llmService:   llmService,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// ProcessLabel handles one validated upload end to end and returns the
// response body: either the model's parsed field object or the fallback
// envelope around its raw text.
func (s *LabelService) ProcessLabel(
	ctx context.Context,
	file io.Reader,
	fileName string,
	labelCtx models.LabelContext,
	debug bool,
) (any, error) {
	originalPath := filepath.Join(s.uploadDir, sanitizeFilename(fileName))
	tempPath := filepath.Join(s.uploadDir, uuid.New().String()+".png")
	defer s.cleanup(originalPath, tempPath)

	if err := saveFile(originalPath, file); err != nil {
		s.logger.Error("Failed to save uploaded image", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}
	s.logger.Info("Image saved", zap.String("path", originalPath))

	pngBytes, err := s.imageService.ProcessFile(originalPath, debug)
	if err != nil {
		s.logger.Error("Error processing the image", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}

	if err := os.WriteFile(tempPath, pngBytes, 0644); err != nil {
		s.logger.Error("Failed to write re-encoded image", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}

	fileURI, err := s.llmService.UploadFile(ctx, tempPath, "image/png")
	if err != nil {
		s.logger.Error("Error uploading to Gemini", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}

	var address string
	if labelCtx.Coords != nil {
		address = s.geoService.ReverseGeocode(ctx, labelCtx.Coords.Latitude, labelCtx.Coords.Longitude)
	}

	prompt := buildExtractionPrompt(labelCtx, address)

	responseText, err := s.llmService.GenerateFromImage(ctx, fileURI, "image/png", prompt)
	if err != nil {
		s.logger.Error("Error sending request to Gemini", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrModelResponse, err)
	}

	return normalizeModelResponse(responseText, s.logger), nil
}

// cleanup removes the request's scratch files. Existence checks tolerate
// pipelines that failed before a file was created.
func (s *LabelService) cleanup(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove temporary file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}

func saveFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}
