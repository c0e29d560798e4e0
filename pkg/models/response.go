package models

import "time"

// SessionResponse is the canonical representation of an editing session
// returned by the API.
type SessionResponse struct {
	ID             string          `json:"id"`
	State          string          `json:"state"`
	Document       *ResumeDocument `json:"document,omitempty"`
	SourceFilename string          `json:"source_filename,omitempty"`
	PreviewURL     string          `json:"preview_url,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
