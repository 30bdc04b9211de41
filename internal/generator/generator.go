package generator

import (
	"context"
	"strings"
	"time"

	"github.com/ads-marketplace/adcopy/internal/llm"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/ads-marketplace/adcopy/internal/prompt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultCallTimeout = 60 * time.Second

// Generator compiles one prompt per platform, sends it to the completer and
// collects the answers in platform order.
type Generator struct {
	completer   llm.Completer
	provider    string
	concurrency int
	callTimeout time.Duration
	onResult    func(models.PlatformResult)
	log         *zap.Logger
}

type Option func(*Generator)

// WithConcurrency sets how many completions may run at once. Values below 2
// keep the sequential loop.
func WithConcurrency(n int) Option {
	return func(g *Generator) { g.concurrency = n }
}

// WithCallTimeout bounds every completion call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(g *Generator) { g.callTimeout = d }
}

// WithProvider labels CompletionErrors raised by the generator itself.
func WithProvider(name string) Option {
	return func(g *Generator) { g.provider = name }
}

// OnResult registers a hook fired once per finished platform. With
// concurrency > 1 it is called from several goroutines.
func OnResult(fn func(models.PlatformResult)) Option {
	return func(g *Generator) { g.onResult = fn }
}

func New(completer llm.Completer, log *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		completer:   completer,
		concurrency: 1,
		callTimeout: DefaultCallTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the completions for every platform. A failing platform gets a
// *llm.CompletionError in its slot and does not stop the others. When ctx is
// cancelled the partial result is dropped and ctx.Err() is returned.
func (g *Generator) Generate(ctx context.Context, spec models.CampaignSpec, platforms []models.Platform) (*models.GenerationResult, error) {
	if err := models.ValidatePlatforms(platforms); err != nil {
		return nil, err
	}

	slots := make([]models.PlatformResult, len(platforms))

	if g.concurrency <= 1 {
		for i, p := range platforms {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slots[i] = g.generateOne(ctx, spec, p)
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(g.concurrency)
		for i, p := range platforms {
			eg.Go(func() error {
				slots[i] = g.generateOne(egCtx, spec, p)
				return nil
			})
		}
		_ = eg.Wait()
	}

	if err := ctx.Err(); err != nil {
		g.log.Info("generation cancelled, discarding partial result", zap.Int("platforms", len(platforms)))
		return nil, err
	}

	return &models.GenerationResult{Entries: slots}, nil
}

func (g *Generator) generateOne(ctx context.Context, spec models.CampaignSpec, p models.Platform) models.PlatformResult {
	start := time.Now()
	res := models.PlatformResult{Platform: p}

	callCtx := ctx
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	text, err := g.completer.Complete(callCtx, prompt.Compile(spec, p))
	text = strings.TrimSpace(text)
	switch {
	case err != nil:
		res.Err = llm.AsCompletionError(g.provider, err)
	case text == "":
		res.Err = &llm.CompletionError{Kind: llm.KindEmpty, Provider: g.provider, Err: llm.ErrEmptyCompletion}
	default:
		res.Text = text
	}

	if res.Err != nil {
		g.log.Warn("platform generation failed",
			zap.String("platform", p.String()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(res.Err),
		)
	} else {
		g.log.Debug("platform generated",
			zap.String("platform", p.String()),
			zap.Duration("latency", time.Since(start)),
		)
	}

	if g.onResult != nil && ctx.Err() == nil {
		g.onResult(res)
	}
	return res
}
