package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRun is the audit record of one generation request. It stores
// counts and platform names only, never the campaign contents.
type GenerationRun struct {
	ID         uuid.UUID `json:"id"`
	Subject    string    `json:"subject"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Platforms  []string  `json:"platforms"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
