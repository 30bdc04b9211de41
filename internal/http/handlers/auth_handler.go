package handlers

import (
	"github.com/ads-marketplace/adcopy/internal/auth"
	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// IssueToken exchanges a configured API key for a JWT.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	if !h.cfg.AuthEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "authentication is disabled"})
	}

	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.APIKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "api_key is required"})
	}

	subject, ok := auth.LookupAPIKey(h.cfg.APIKeys, req.APIKey)
	if !ok {
		h.log.Debug("unknown api key", zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid api key"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, subject, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.cfg.JWTExpiration.Seconds()),
	})
}
