package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/ads-marketplace/adcopy/internal/export"
	"github.com/ads-marketplace/adcopy/internal/http/dto"
	"github.com/ads-marketplace/adcopy/internal/middleware"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/ads-marketplace/adcopy/internal/repositories"
	"github.com/ads-marketplace/adcopy/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RunLister reads the audit history of a subject.
type RunLister interface {
	List(ctx context.Context, f repositories.GenerationFilter) ([]models.GenerationRun, error)
}

type GenerationHandler struct {
	generationService *services.GenerationService
	runs              RunLister
	log               *zap.Logger
}

// NewGenerationHandler builds the handler. runs may be nil when no history
// store is configured. The run deadline is set by the service from the number
// of requested platforms.
func NewGenerationHandler(generationService *services.GenerationService, runs RunLister, log *zap.Logger) *GenerationHandler {
	return &GenerationHandler{generationService: generationService, runs: runs, log: log}
}

func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	out, err := h.run(c)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(dto.GenerateResponse{
		RunID:   out.RunID,
		Results: dto.FromResult(out.Result),
		Export:  out.Export,
	})
}

// Download runs a generation and answers with the export file.
func (h *GenerationHandler) Download(c *fiber.Ctx) error {
	out, err := h.run(c)
	if err != nil {
		return h.fail(c, err)
	}
	if len(out.Result.Succeeded()) == 0 {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error:     "generation failed for every platform",
			RequestID: middleware.GetRequestID(c),
		})
	}

	return sendExport(c, out.Export)
}

// Export turns previously displayed results into the download file without
// calling the model again.
func (h *GenerationHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if len(req.Results) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "results are required"})
	}

	return sendExport(c, export.Export(dto.ToResult(req.Results)))
}

func (h *GenerationHandler) ListRuns(c *fiber.Ctx) error {
	if h.runs == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Error: "history is not available"})
	}

	filter := repositories.GenerationFilter{
		Subject: middleware.GetSubject(c),
		Limit:   20,
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	runs, err := h.runs.List(c.UserContext(), filter)
	if err != nil {
		h.log.Error("list generation runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: runs})
}

func (h *GenerationHandler) run(c *fiber.Ctx) (*services.GenerationOutcome, error) {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request")
	}

	return h.generationService.Generate(c.UserContext(), services.GenerationRequest{
		Subject:   middleware.GetSubject(c),
		Spec:      req.Spec(),
		Platforms: req.PlatformList(),
	})
}

func (h *GenerationHandler) fail(c *fiber.Ctx, err error) error {
	reqID := middleware.GetRequestID(c)

	var verr *models.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error:     "invalid campaign",
			Problems:  verr.Problems,
			RequestID: reqID,
		})
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(dto.ErrorResponse{Error: ferr.Message, RequestID: reqID})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.log.Warn("generation aborted", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Error: "generation aborted", RequestID: reqID})
	default:
		h.log.Error("generation failed", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error", RequestID: reqID})
	}
}

func sendExport(c *fiber.Ctx, body string) error {
	c.Attachment(export.FileName)
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.SendString(body)
}
