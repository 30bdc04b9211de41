package prompt

import (
	"fmt"
	"strings"

	"github.com/ads-marketplace/adcopy/internal/models"
)

// SystemPrompt is sent as the system instruction by providers that accept one.
const SystemPrompt = "You are an expert ad copywriter. You generate high-converting ads for specific platforms using structured inputs."

// Compile builds the completion prompt for one platform. The output depends
// only on its arguments; every field gets its own labeled line even when empty.
func Compile(spec models.CampaignSpec, platform models.Platform) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a high-converting ad copy for %s.\n", platform)
	b.WriteString("Product Details:\n")
	b.WriteString(Context(spec))
	b.WriteString("\n")
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Tailor the ad copy for %s audience.\n", platform)
	fmt.Fprintf(&b, "- Match the campaign goal: %s.\n", spec.Goal)
	fmt.Fprintf(&b, "- Keep the tone: %s.\n", spec.Tone)
	b.WriteString("- Use an engaging Call-to-Action.\n")

	return b.String()
}

// Context renders the labeled campaign block shared by every platform prompt.
func Context(spec models.CampaignSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product Name: %s\n", spec.ProductName)
	fmt.Fprintf(&b, "Product Description: %s\n", spec.ProductDescription)
	fmt.Fprintf(&b, "The Problem It Solves: %s\n", spec.ProblemSolved)
	fmt.Fprintf(&b, "Unique Selling Proposition (USP): %s\n", spec.USP)
	b.WriteString("Target Audience:\n")
	fmt.Fprintf(&b, "    Age Group: %s\n", spec.AgeGroup)
	fmt.Fprintf(&b, "    Gender: %s\n", spec.Gender)
	fmt.Fprintf(&b, "Campaign Goal: %s\n", spec.Goal)
	fmt.Fprintf(&b, "Desired Tone: %s\n", spec.Tone)
	return b.String()
}
