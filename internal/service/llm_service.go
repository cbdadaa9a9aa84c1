package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"labelscan/pkg/config"

	"go.uber.org/zap"
)

// triggerMessage is the short follow-up turn that elicits the completion after
// the image+instruction turn has been seeded.
const triggerMessage = "Do it now."

// LLMService talks to the Gemini API: it uploads processed images to the
// Files API and runs a single-turn chat completion over them. The client is
// constructed once at startup and reused across requests.
type LLMService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLLMService(cfg *config.GeminiConfig, logger *zap.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	service := &LLMService{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		// Base URL for the Gemini REST API
		// Documentation: https://ai.google.dev/api
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}

	logger.Info("Gemini client initialized", zap.String("model", cfg.Model))
	return service, nil
}

// geminiPart is one element of a conversational turn: either inline text or a
// reference to a previously uploaded file.
type geminiPart struct {
	Text     string          `json:"text,omitempty"`
	FileData *geminiFileData `json:"file_data,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// UploadFile uploads the file at path to the Gemini Files API and returns its
// opaque file URI.
// Documentation: https://ai.google.dev/api/files
// Endpoint: POST /upload/v1beta/files (multipart: metadata part + media part)
func (s *LLMService) UploadFile(ctx context.Context, path, mimeType string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// Metadata part with the display name
	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata part: %w", err)
	}
	metadata := map[string]any{
		"file": map[string]any{"display_name": filepath.Base(path)},
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	// Media part with the image bytes
	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return "", fmt.Errorf("failed to create media part: %w", err)
	}
	if _, err := io.Copy(mediaPart, file); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	uploadURL := s.baseURL + "/upload/v1beta/files?key=" + s.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())
	req.Header.Set("X-Goog-Upload-Protocol", "multipart")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		File struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
			URI         string `json:"uri"`
		} `json:"file"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if uploadResp.File.URI == "" {
		return "", fmt.Errorf("empty file URI in upload response")
	}

	s.logger.Info("File uploaded to Gemini",
		zap.String("display_name", uploadResp.File.DisplayName),
		zap.String("uri", uploadResp.File.URI),
	)

	return uploadResp.File.URI, nil
}

// GenerateFromImage seeds a single-turn conversation with the uploaded image
// and the composed instruction text, sends the trigger message, and returns
// the completion's raw text. Generation parameters are fixed per deployment.
// Endpoint: POST /v1beta/models/{model}:generateContent
func (s *LLMService) GenerateFromImage(ctx context.Context, fileURI, mimeType, prompt string) (string, error) {
	request := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{FileData: &geminiFileData{MimeType: mimeType, FileURI: fileURI}},
					{Text: prompt},
				},
			},
			{
				Role:  "user",
				Parts: []geminiPart{{Text: triggerMessage}},
			},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:      0.2,
			TopP:             0.95,
			TopK:             40,
			MaxOutputTokens:  2048,
			ResponseMimeType: "text/plain",
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if genResp.Error != nil {
		return "", fmt.Errorf("API error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	var text strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	result := strings.TrimSpace(text.String())
	s.logger.Info("Gemini completion received",
		zap.String("model", s.model),
		zap.Int("text_length", len(result)),
	)

	return result, nil
}
