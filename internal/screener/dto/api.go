package dto

import "time"

// ErrorResponse is the error body of the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunSummary is a run without its stocks, used in listings.
type RunSummary struct {
	ID                   string    `json:"id"`
	ConfigName           string    `json:"config_name"`
	TotalScanned         int       `json:"total_scanned"`
	TotalMatches         int       `json:"total_matches"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
	ErrorCount           int       `json:"error_count"`
	CreatedAt            time.Time `json:"created_at"`
}

// EnqueueRunRequest is the body of POST /runs.
type EnqueueRunRequest struct {
	Limit   int      `json:"limit"`
	Symbols []string `json:"symbols"`
}

// EnqueueRunResponse acknowledges a queued run.
type EnqueueRunResponse struct {
	RequestID string `json:"request_id"`
	MessageID string `json:"message_id"`
}
