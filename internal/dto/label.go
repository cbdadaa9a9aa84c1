package dto

type ErrorResponse struct {
	Error string `json:"error"`
}

// FallbackResponse wraps model output that could not be parsed as JSON.
type FallbackResponse struct {
	AIResponse string `json:"ai_response"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}
