package model

// Response is the common JSON envelope for admin and utility endpoints.
// The analyze boundary uses AnalyzeResponse instead.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Update successful"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DefaultResponse is a generic wrapper for Huma responses
type DefaultResponse struct {
	Body Response
}
