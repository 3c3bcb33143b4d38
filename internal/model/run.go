package model

import "time"

// RunStatus tracks the lifecycle of a generation request.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// GenerationRun is the persisted record of one generation request.
type GenerationRun struct {
	ID            string    `json:"id"`
	Status        RunStatus `json:"status"`
	DocumentCount int       `json:"document_count"`
	Questions     int       `json:"questions"`
	Answers       int       `json:"answers"`
	Contexts      int       `json:"contexts"`
	CacheHit      bool      `json:"cache_hit"`
	FastMode      bool      `json:"fast_mode"`
	DurationMs    int64     `json:"duration_ms"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
