package models

import "strings"

// Target age bands
const (
	AgeGroup18to24 = "18-24"
	AgeGroup25to34 = "25-34"
	AgeGroup35to44 = "35-44"
	AgeGroup45to54 = "45-54"
	AgeGroup55Plus = "55+"
)

// Target genders
const (
	GenderAll       = "All Genders"
	GenderMale      = "Male"
	GenderFemale    = "Female"
	GenderNonBinary = "Non-binary"
)

// Campaign goals
const (
	GoalLeadGeneration = "Lead Generation"
	GoalSales          = "Sales"
	GoalBrandAwareness = "Brand Awareness"
	GoalWebsiteVisits  = "Website Visits"
)

// Tones
const (
	ToneFriendly     = "Friendly"
	ToneProfessional = "Professional"
	ToneFun          = "Fun"
)

// Option lists in the order they are offered to the user.
var (
	AgeGroups = []string{AgeGroup18to24, AgeGroup25to34, AgeGroup35to44, AgeGroup45to54, AgeGroup55Plus}
	Genders   = []string{GenderAll, GenderMale, GenderFemale, GenderNonBinary}
	Goals     = []string{GoalLeadGeneration, GoalSales, GoalBrandAwareness, GoalWebsiteVisits}
	Tones     = []string{ToneFriendly, ToneProfessional, ToneFun}
)

// CampaignSpec holds the parameters of one ad copy request. It is built once
// per submission and passed by value.
type CampaignSpec struct {
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	ProblemSolved      string `json:"problem_solved"`
	USP                string `json:"usp,omitempty"`
	AgeGroup           string `json:"age_group"`
	Gender             string `json:"gender"`
	Goal               string `json:"campaign_goal"`
	Tone               string `json:"tone"`
}

// Validate reports every missing or out-of-domain field at once.
func (s CampaignSpec) Validate() error {
	var v ValidationError

	required := []struct {
		field string
		value string
	}{
		{"product_name", s.ProductName},
		{"product_description", s.ProductDescription},
		{"problem_solved", s.ProblemSolved},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			v.Add(r.field, "is required")
		}
	}

	enums := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"age_group", s.AgeGroup, AgeGroups},
		{"gender", s.Gender, Genders},
		{"campaign_goal", s.Goal, Goals},
		{"tone", s.Tone, Tones},
	}
	for _, e := range enums {
		switch {
		case strings.TrimSpace(e.value) == "":
			v.Add(e.field, "is required")
		case !contains(e.allowed, e.value):
			v.Add(e.field, "must be one of: "+strings.Join(e.allowed, ", "))
		}
	}

	if v.HasProblems() {
		return &v
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
