package dto

import (
	"errors"
	"strings"

	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/google/uuid"
)

var errEntryFailed = errors.New("generation failed")

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type ErrorResponse struct {
	Error     string                `json:"error"`
	Problems  []models.FieldProblem `json:"problems,omitempty"`
	RequestID string                `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// PlatformResult is one display entry: the generated text or the reason it failed.
type PlatformResult struct {
	Platform string `json:"platform"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

type GenerateResponse struct {
	RunID   uuid.UUID        `json:"run_id"`
	Results []PlatformResult `json:"results"`
	Export  string           `json:"export"`
}

type OptionsResponse struct {
	AgeGroups []string `json:"age_groups"`
	Genders   []string `json:"genders"`
	Goals     []string `json:"campaign_goals"`
	Tones     []string `json:"tones"`
	Platforms []string `json:"platforms"`
}

func FromResult(r *models.GenerationResult) []PlatformResult {
	out := make([]PlatformResult, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = PlatformResult{Platform: e.Platform.String(), Text: e.Text}
		if e.Err != nil {
			out[i].Error = e.Err.Error()
		}
	}
	return out
}

// ToResult rebuilds a generation result from display entries. Text is
// trimmed; an entry with an error or without text counts as failed.
func ToResult(entries []PlatformResult) *models.GenerationResult {
	r := &models.GenerationResult{Entries: make([]models.PlatformResult, len(entries))}
	for i, e := range entries {
		text := strings.TrimSpace(e.Text)
		pr := models.PlatformResult{Platform: models.Platform(e.Platform), Text: text}
		if e.Error != "" || text == "" {
			pr.Text = ""
			pr.Err = errEntryFailed
		}
		r.Entries[i] = pr
	}
	return r
}
