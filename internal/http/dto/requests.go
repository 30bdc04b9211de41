package dto

import "github.com/ads-marketplace/adcopy/internal/models"

type TokenRequest struct {
	APIKey string `json:"api_key"`
}

type GenerateRequest struct {
	ProductName        string   `json:"product_name"`
	ProductDescription string   `json:"product_description"`
	ProblemSolved      string   `json:"problem_solved"`
	USP                string   `json:"usp,omitempty"`
	AgeGroup           string   `json:"age_group"`
	Gender             string   `json:"gender"`
	CampaignGoal       string   `json:"campaign_goal"`
	Tone               string   `json:"tone"`
	Platforms          []string `json:"platforms,omitempty"` // empty → configured platforms
}

func (r GenerateRequest) Spec() models.CampaignSpec {
	return models.CampaignSpec{
		ProductName:        r.ProductName,
		ProductDescription: r.ProductDescription,
		ProblemSolved:      r.ProblemSolved,
		USP:                r.USP,
		AgeGroup:           r.AgeGroup,
		Gender:             r.Gender,
		Goal:               r.CampaignGoal,
		Tone:               r.Tone,
	}
}

func (r GenerateRequest) PlatformList() []models.Platform {
	if len(r.Platforms) == 0 {
		return nil
	}
	out := make([]models.Platform, len(r.Platforms))
	for i, p := range r.Platforms {
		out[i] = models.Platform(p)
	}
	return out
}

type ExportRequest struct {
	Results []PlatformResult `json:"results"`
}

type ProductPreviewRequest struct {
	URL string `json:"url"`
}
