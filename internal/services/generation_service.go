package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ads-marketplace/adcopy/internal/events"
	"github.com/ads-marketplace/adcopy/internal/export"
	"github.com/ads-marketplace/adcopy/internal/generator"
	"github.com/ads-marketplace/adcopy/internal/llm"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunRecorder stores the audit record of a finished run.
type RunRecorder interface {
	Create(ctx context.Context, run *models.GenerationRun) error
}

// GenerationSettings are the server-wide defaults. A zero CallTimeout keeps
// the generator default; a zero MaxPlatforms caps requests at the length of
// the configured platform list.
type GenerationSettings struct {
	Provider     string
	Platforms    []models.Platform
	Concurrency  int
	CallTimeout  time.Duration
	MaxPlatforms int
}

// runSlack covers prompt compilation, recording and event publishing on top
// of the completion calls themselves.
const runSlack = 5 * time.Second

type GenerationService struct {
	client    llm.Client
	recorder  RunRecorder
	publisher events.Publisher
	settings  GenerationSettings
	log       *zap.Logger
}

func NewGenerationService(
	client llm.Client,
	recorder RunRecorder,
	publisher events.Publisher,
	settings GenerationSettings,
	log *zap.Logger,
) *GenerationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if len(settings.Platforms) == 0 {
		settings.Platforms = models.DefaultPlatforms()
	}
	if settings.MaxPlatforms <= 0 {
		settings.MaxPlatforms = len(settings.Platforms)
	}
	if settings.CallTimeout <= 0 {
		settings.CallTimeout = generator.DefaultCallTimeout
	}
	return &GenerationService{
		client:    client,
		recorder:  recorder,
		publisher: publisher,
		settings:  settings,
		log:       log,
	}
}

type GenerationRequest struct {
	Subject   string
	Spec      models.CampaignSpec
	Platforms []models.Platform // empty means the configured list
}

type GenerationOutcome struct {
	RunID  uuid.UUID
	Result *models.GenerationResult
	Export string
}

// Platforms returns the configured default platform order.
func (s *GenerationService) Platforms() []models.Platform {
	out := make([]models.Platform, len(s.settings.Platforms))
	copy(out, s.settings.Platforms)
	return out
}

// RunTimeout is the deadline of a run over n platforms: one call timeout per
// wave of concurrent calls plus a fixed slack.
func (s *GenerationService) RunTimeout(n int) time.Duration {
	workers := s.settings.Concurrency
	if workers < 1 {
		workers = 1
	}
	waves := (n + workers - 1) / workers
	return time.Duration(waves)*s.settings.CallTimeout + runSlack
}

// Generate validates the request, runs the generator and records the run.
// Only a *models.ValidationError or a context error is returned; per-platform
// failures live inside the result.
func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest) (*GenerationOutcome, error) {
	if err := req.Spec.Validate(); err != nil {
		return nil, err
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = s.Platforms()
	}
	if err := models.ValidatePlatforms(platforms); err != nil {
		return nil, err
	}
	if len(platforms) > s.settings.MaxPlatforms {
		verr := &models.ValidationError{}
		verr.Add("platforms", fmt.Sprintf("must contain at most %d platforms", s.settings.MaxPlatforms))
		return nil, verr
	}

	ctx, cancel := context.WithTimeout(ctx, s.RunTimeout(len(platforms)))
	defer cancel()

	runID := uuid.New()
	log := s.log.With(zap.String("run_id", runID.String()), zap.String("subject", req.Subject))
	start := time.Now()

	gen := generator.New(s.client, log,
		generator.WithConcurrency(s.settings.Concurrency),
		generator.WithCallTimeout(s.settings.CallTimeout),
		generator.WithProvider(s.settings.Provider),
		generator.OnResult(func(r models.PlatformResult) {
			s.publishProgress(ctx, runID, req.Subject, r)
		}),
	)

	result, err := gen.Generate(ctx, req.Spec, platforms)
	if err != nil {
		return nil, err
	}

	run := &models.GenerationRun{
		ID:         runID,
		Subject:    req.Subject,
		Provider:   s.settings.Provider,
		Model:      s.client.Model(),
		Platforms:  platformNames(platforms),
		Succeeded:  len(result.Succeeded()),
		Failed:     len(result.Failed()),
		DurationMS: time.Since(start).Milliseconds(),
	}
	s.record(ctx, run)

	log.Info("generation finished",
		zap.Int("succeeded", run.Succeeded),
		zap.Int("failed", run.Failed),
		zap.Int64("duration_ms", run.DurationMS),
	)

	s.publish(ctx, events.Event{
		Type:    events.EventGenerationCompleted,
		Subject: req.Subject,
		Payload: map[string]any{
			"run_id":    runID.String(),
			"succeeded": run.Succeeded,
			"failed":    run.Failed,
		},
	})

	return &GenerationOutcome{
		RunID:  runID,
		Result: result,
		Export: export.Export(result),
	}, nil
}

func (s *GenerationService) record(ctx context.Context, run *models.GenerationRun) {
	if s.recorder == nil {
		return
	}
	// the run already happened; record it even if the caller went away
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.recorder.Create(recCtx, run); err != nil {
		s.log.Error("failed to record generation run", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// Progress events carry status only; generated text is never published.
func (s *GenerationService) publishProgress(ctx context.Context, runID uuid.UUID, subject string, r models.PlatformResult) {
	e := events.Event{
		Type:    events.EventPlatformGenerated,
		Subject: subject,
		Payload: map[string]any{
			"run_id":   runID.String(),
			"platform": r.Platform.String(),
		},
	}
	if !r.OK() {
		e.Type = events.EventPlatformFailed
		e.Payload["error"] = r.Err.Error()
	}
	s.publish(ctx, e)
}

func (s *GenerationService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, events.StreamGeneration, e); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", e.Type), zap.Error(err))
	}
}

func platformNames(ps []models.Platform) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
