package dto

import (
	"testing"

	"github.com/ads-marketplace/adcopy/internal/models"
)

func TestToResult(t *testing.T) {
	tests := []struct {
		name     string
		entry    PlatformResult
		wantOK   bool
		wantText string
	}{
		{"text", PlatformResult{Platform: "Facebook", Text: "Buy now!"}, true, "Buy now!"},
		{"padded text", PlatformResult{Platform: "Facebook", Text: "  Buy now!\n"}, true, "Buy now!"},
		{"empty text", PlatformResult{Platform: "Facebook"}, false, ""},
		{"whitespace only", PlatformResult{Platform: "Facebook", Text: " \n\t "}, false, ""},
		{"error wins over text", PlatformResult{Platform: "Facebook", Text: "Buy now!", Error: "quota exceeded"}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ToResult([]PlatformResult{tt.entry})
			if len(r.Entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(r.Entries))
			}
			got := r.Entries[0]
			if got.Platform != models.Platform(tt.entry.Platform) {
				t.Errorf("Platform = %q, want %q", got.Platform, tt.entry.Platform)
			}
			if got.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", got.OK(), tt.wantOK)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}
