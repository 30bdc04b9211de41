package prompt

import (
	"strings"
	"testing"

	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ecoBottle() models.CampaignSpec {
	return models.CampaignSpec{
		ProductName:        "EcoBottle",
		ProductDescription: "Reusable bottle",
		ProblemSolved:      "plastic waste",
		USP:                "",
		AgeGroup:           models.AgeGroup18to24,
		Gender:             models.GenderAll,
		Goal:               models.GoalSales,
		Tone:               models.ToneFun,
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	spec := ecoBottle()
	for _, p := range models.DefaultPlatforms() {
		first := Compile(spec, p)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Compile(spec, p), "platform %s", p)
		}
	}
}

func TestCompileIncludesEveryField(t *testing.T) {
	spec := ecoBottle()
	spec.USP = "Keeps water cold for 24 hours"

	for _, p := range models.DefaultPlatforms() {
		out := Compile(spec, p)
		for _, want := range []string{
			string(p),
			spec.ProductName,
			spec.ProductDescription,
			spec.ProblemSolved,
			spec.USP,
			spec.AgeGroup,
			spec.Gender,
			spec.Goal,
			spec.Tone,
		} {
			assert.Contains(t, out, want, "platform %s", p)
		}
		assert.Contains(t, out, "Call-to-Action")
		assert.Contains(t, out, "Tailor the ad copy for "+string(p)+" audience.")
		assert.Contains(t, out, "Match the campaign goal: Sales.")
		assert.Contains(t, out, "Keep the tone: Fun.")
	}
}

func TestCompileKeepsEmptyUSPLine(t *testing.T) {
	spec := ecoBottle()
	out := Compile(spec, models.PlatformInstagram)

	require.NotEmpty(t, out)
	assert.Contains(t, out, "Unique Selling Proposition (USP): \n")
}

func TestCompileLabelOrder(t *testing.T) {
	out := Compile(ecoBottle(), models.PlatformFacebook)
	labels := []string{
		"Generate a high-converting ad copy for Facebook.",
		"Product Name:",
		"Product Description:",
		"The Problem It Solves:",
		"Unique Selling Proposition (USP):",
		"Target Audience:",
		"Age Group:",
		"Gender:",
		"Campaign Goal:",
		"Desired Tone:",
		"Requirements:",
	}

	last := -1
	for _, l := range labels {
		idx := strings.Index(out, l)
		require.GreaterOrEqual(t, idx, 0, "label %q missing", l)
		assert.Greater(t, idx, last, "label %q out of order", l)
		last = idx
	}
}

func TestCompileDiffersPerPlatform(t *testing.T) {
	spec := ecoBottle()
	assert.NotEqual(t, Compile(spec, models.PlatformFacebook), Compile(spec, models.PlatformLinkedIn))
}
