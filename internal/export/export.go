package export

import (
	"regexp"
	"strings"

	"github.com/ads-marketplace/adcopy/internal/models"
)

const (
	FileName    = "ad_copies.txt"
	ContentType = "text/plain; charset=utf-8"

	// Separator sits between two platform blocks.
	Separator = "\n\n"
)

var headerRe = regexp.MustCompile(`^--- (.+) Ad Copy ---$`)

type Entry struct {
	Platform models.Platform
	Text     string
}

func Header(p models.Platform) string {
	return "--- " + string(p) + " Ad Copy ---"
}

// Export renders the successful entries of r as plain text blocks in result
// order. Platforms whose generation failed are left out of the file.
func Export(r *models.GenerationResult) string {
	if r == nil {
		return ""
	}
	entries := make([]Entry, 0, len(r.Entries))
	for _, e := range r.Succeeded() {
		entries = append(entries, Entry{Platform: e.Platform, Text: e.Text})
	}
	return Render(entries)
}

func Render(entries []Entry) string {
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = Header(e.Platform) + "\n" + e.Text
	}
	return strings.Join(blocks, Separator)
}

// Parse is the inverse of Render. A header line opens a new block when it is
// the first line or follows a blank line, so texts may contain blank lines.
func Parse(s string) []Entry {
	if s == "" {
		return nil
	}

	var (
		entries []Entry
		cur     *Entry
		body    []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.Join(body, "\n")
		entries = append(entries, *cur)
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		m := headerRe.FindStringSubmatch(line)
		if m != nil && (i == 0 || lines[i-1] == "") {
			if cur != nil && len(body) > 0 && body[len(body)-1] == "" {
				// drop the blank separator line
				body = body[:len(body)-1]
			}
			flush()
			cur = &Entry{Platform: models.Platform(m[1])}
			body = nil
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()
	return entries
}
