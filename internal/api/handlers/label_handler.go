package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"labelscan/internal/dto"
	"labelscan/internal/models"
	"labelscan/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// allowedExtensions lists the accepted upload types, in the order they are
// reported to the client.
var allowedExtensions = []string{"png", "jpg", "jpeg", "webp"}

var (
	errMissingFile     = errors.New("no image file provided")
	errEmptyFilename   = errors.New("no file selected")
	errUnsupportedType = errors.New("unsupported file type")
)

type LabelHandler struct {
	labelService *service.LabelService
	model        string
	logger       *zap.Logger
}

func NewLabelHandler(labelService *service.LabelService, model string, logger *zap.Logger) *LabelHandler {
	return &LabelHandler{
		labelService: labelService,
		model:        model,
		logger:       logger,
	}
}

// ProcessLabel godoc
// @Summary Process a supermarket price label photo
// @Description Crop the uploaded photo, send it to the AI model with any provided context and return the extracted fields as JSON
// @Tags labels
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Label photo (png, jpg, jpeg or webp)"
// @Param debug formData boolean false "Persist the cropped image for inspection"
// @Param shop_name formData string false "Shop name"
// @Param latitude formData number false "GPS latitude (requires longitude)"
// @Param longitude formData number false "GPS longitude (requires latitude)"
// @Param date_time formData string false "ISO-8601 timestamp of the photo"
// @Param hint_text formData string false "Free-text hint for the model"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /process_label [post]
func (h *LabelHandler) ProcessLabel(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.logger.Error("No image file provided in the request")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "No image file provided",
		})
	}

	if err := validateUpload(fileHeader); err != nil {
		h.logger.Error("Rejected upload",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: rejectionMessage(err),
		})
	}

	debug := parseBoolField(c.FormValue("debug"))
	labelCtx := parseLabelContext(c)

	src, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Error processing the image",
		})
	}
	defer src.Close()

	result, err := h.labelService.ProcessLabel(c.Context(), src, fileHeader.Filename, labelCtx, debug)
	if err != nil {
		if errors.Is(err, service.ErrModelResponse) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "Failed to get a response from the AI",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Error processing the image",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *LabelHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status: "ok",
		Model:  h.model,
	})
}

// validateUpload classifies an invalid image part: empty filename or an
// extension outside the allowed set.
func validateUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return errMissingFile
	}
	if fileHeader.Filename == "" {
		return errEmptyFilename
	}
	if !allowedFile(fileHeader.Filename) {
		return errUnsupportedType
	}
	return nil
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, errEmptyFilename):
		return "No file selected"
	case errors.Is(err, errUnsupportedType):
		return fmt.Sprintf("Invalid file type, allowed types are: %s", strings.Join(allowedExtensions, ", "))
	default:
		return "No image file provided"
	}
}

func allowedFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// parseLabelContext extracts the optional form fields. Absent or unparseable
// values resolve to their zero value rather than failing the request, and a
// coordinate pair forms only when both latitude and longitude parse.
func parseLabelContext(c *fiber.Ctx) models.LabelContext {
	labelCtx := models.LabelContext{
		ShopName: c.FormValue("shop_name"),
		DateTime: c.FormValue("date_time"),
		HintText: c.FormValue("hint_text"),
	}

	latStr := c.FormValue("latitude")
	lonStr := c.FormValue("longitude")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			labelCtx.Coords = &models.Coordinates{Latitude: lat, Longitude: lon}
		}
	}

	return labelCtx
}

func parseBoolField(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
