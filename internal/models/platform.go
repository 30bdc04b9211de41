package models

import (
	"strings"
	"unicode"
)

// Platform is the name of an advertising channel ad copy is written for.
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformGoogleAds Platform = "Google Ads"
)

// DefaultPlatforms returns a fresh copy of the built-in platform order.
func DefaultPlatforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformGoogleAds}
}

func (p Platform) String() string {
	return string(p)
}

// ParsePlatforms splits a comma separated list, e.g. "Facebook, Google Ads".
// Blank items are skipped; the result is validated.
func ParsePlatforms(s string) ([]Platform, error) {
	var out []Platform
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Platform(part))
	}
	if err := ValidatePlatforms(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidatePlatforms requires a non-empty list of distinct, non-blank names.
// A generation result holds one entry per platform, so duplicates are rejected.
// Names end up on export header lines and must not contain control characters.
func ValidatePlatforms(platforms []Platform) error {
	var v ValidationError
	if len(platforms) == 0 {
		v.Add("platforms", "must contain at least one platform")
		return &v
	}

	seen := make(map[Platform]struct{}, len(platforms))
	for _, p := range platforms {
		if strings.TrimSpace(string(p)) == "" {
			v.Add("platforms", "must not contain blank names")
			continue
		}
		if strings.ContainsFunc(string(p), unicode.IsControl) {
			v.Add("platforms", "must not contain control characters")
			continue
		}
		if _, dup := seen[p]; dup {
			v.Add("platforms", "duplicate platform "+string(p))
			continue
		}
		seen[p] = struct{}{}
	}

	if v.HasProblems() {
		return &v
	}
	return nil
}
