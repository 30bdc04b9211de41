package handlers

import (
	"errors"

	"github.com/ads-marketplace/adcopy/internal/http/dto"
	"github.com/ads-marketplace/adcopy/internal/productparser"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	parser *productparser.Parser
	log    *zap.Logger
}

func NewProductHandler(parser *productparser.Parser, log *zap.Logger) *ProductHandler {
	return &ProductHandler{parser: parser, log: log}
}

// Preview scrapes a product page so the form can be prefilled.
func (h *ProductHandler) Preview(c *fiber.Ctx) error {
	var req dto.ProductPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	preview, err := h.parser.FetchPreview(c.UserContext(), req.URL)
	if err != nil {
		if errors.Is(err, productparser.ErrInvalidURL) || errors.Is(err, productparser.ErrBlockedHost) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Warn("product preview failed", zap.String("url", req.URL), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "could not fetch product page"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: preview})
}
