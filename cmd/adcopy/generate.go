package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/events"
	"github.com/ads-marketplace/adcopy/internal/export"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/ads-marketplace/adcopy/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateFlags struct {
	spec        models.CampaignSpec
	platforms   string
	concurrency int
	out         string
	verbose     bool
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ad copy for every configured platform",
		Example: `  adcopy generate --product EcoBottle --description "Reusable bottle" \
    --problem "plastic waste" --age 18-24 --gender "All Genders" --goal Sales --tone Fun`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runGenerate(ctx, cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.spec.ProductName, "product", "", "product name")
	fl.StringVar(&f.spec.ProductDescription, "description", "", "product description")
	fl.StringVar(&f.spec.ProblemSolved, "problem", "", "problem the product solves")
	fl.StringVar(&f.spec.USP, "usp", "", "unique selling proposition (optional)")
	fl.StringVar(&f.spec.AgeGroup, "age", models.AgeGroup18to24, "target age group")
	fl.StringVar(&f.spec.Gender, "gender", models.GenderAll, "target gender")
	fl.StringVar(&f.spec.Goal, "goal", models.GoalBrandAwareness, "campaign goal")
	fl.StringVar(&f.spec.Tone, "tone", models.ToneFriendly, "tone of voice")
	fl.StringVar(&f.platforms, "platforms", "", "comma separated platforms, overrides PLATFORMS")
	fl.IntVar(&f.concurrency, "concurrency", 0, "parallel completion calls, overrides GENERATION_CONCURRENCY")
	fl.StringVarP(&f.out, "out", "o", export.FileName, "export file, empty to skip")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, f generateFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	platforms := cfg.Platforms
	if f.platforms != "" {
		if platforms, err = models.ParsePlatforms(f.platforms); err != nil {
			return err
		}
	}
	concurrency := cfg.GenerationConcurrency
	if f.concurrency > 0 {
		concurrency = f.concurrency
	}

	log := zap.NewNop()
	if f.verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer log.Sync()
	}

	// Reject bad input before touching the provider.
	if err := f.spec.Validate(); err != nil {
		return err
	}

	client, err := newClient(ctx, cfg.LLM(), log)
	if err != nil {
		return fmt.Errorf("create completion client: %w", err)
	}

	bus := events.NewMemoryBus()
	if f.verbose {
		_ = bus.Subscribe(ctx, events.StreamGeneration, progressPrinter(cmd.ErrOrStderr()))
	}

	svc := services.NewGenerationService(client, nil, bus, services.GenerationSettings{
		Provider:     cfg.LLMProvider,
		Platforms:    platforms,
		Concurrency:  concurrency,
		CallTimeout:  cfg.CompletionTimeout,
		MaxPlatforms: len(platforms),
	}, log)

	out, err := svc.Generate(ctx, services.GenerationRequest{Spec: f.spec})
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), out.Result)

	if len(out.Result.Succeeded()) == 0 {
		return errors.New("generation failed for every platform")
	}
	if f.out == "" {
		return nil
	}
	if err := os.WriteFile(f.out, []byte(out.Export), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", f.out)
	return nil
}

func printResult(w io.Writer, r *models.GenerationResult) {
	for i, e := range r.Entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## %s\n", e.Platform)
		if e.OK() {
			fmt.Fprintln(w, e.Text)
			continue
		}
		fmt.Fprintf(w, "error: %v\n", e.Err)
	}
}

// MemoryBus runs handlers inside Publish, so concurrent workers may call this
// at the same time; each line is a single write.
func progressPrinter(w io.Writer) func(events.Event) {
	return func(e events.Event) {
		switch e.Type {
		case events.EventPlatformGenerated:
			fmt.Fprintf(w, "done   %v\n", e.Payload["platform"])
		case events.EventPlatformFailed:
			fmt.Fprintf(w, "failed %v: %v\n", e.Payload["platform"], e.Payload["error"])
		}
	}
}
