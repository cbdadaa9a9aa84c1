package service

import (
	"encoding/json"

	"labelscan/internal/dto"

	"go.uber.org/zap"
)

// normalizeModelResponse turns raw model text into the response body: the
// parsed JSON value when the text is strict JSON, otherwise a fallback
// envelope carrying the text verbatim. Malformed model output is an expected,
// recoverable outcome, so it is logged as a warning only.
func normalizeModelResponse(raw string, logger *zap.Logger) any {
	raw = sanitizeUTF8(raw)

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn("Could not parse AI response as JSON, sending response as text",
			zap.Error(err),
		)
		return dto.FallbackResponse{AIResponse: raw}
	}

	return parsed
}
