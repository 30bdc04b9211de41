package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ads-marketplace/adcopy/internal/llm"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/spf13/cobra"
)

// newClient is swapped in tests.
var newClient = llm.New

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "adcopy",
		Short: "Generate platform-tailored ad copy from a campaign description",
		Long: `adcopy compiles a campaign description into one prompt per advertising
platform, asks the configured completion provider for each, and writes the
results to a plain-text export.

Provider credentials come from the environment (.env is honoured):
GEMINI_API_KEY, or LLM_PROVIDER=openai with OPENAI_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newOptionsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return 2
	}
	return 1
}
