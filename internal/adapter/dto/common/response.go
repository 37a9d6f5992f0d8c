package common

import "time"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Code    string            `json:"code,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Time       time.Time         `json:"time"`
	Components map[string]string `json:"components,omitempty"`
}
