package handlers

import (
	"github.com/ads-marketplace/adcopy/internal/http/dto"
	"github.com/ads-marketplace/adcopy/internal/models"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct {
	platforms []models.Platform
}

func NewMetaHandler(platforms []models.Platform) *MetaHandler {
	return &MetaHandler{platforms: platforms}
}

// GetOptions lists the allowed values of every campaign select field.
func (h *MetaHandler) GetOptions(c *fiber.Ctx) error {
	platforms := make([]string, len(h.platforms))
	for i, p := range h.platforms {
		platforms[i] = p.String()
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.OptionsResponse{
		AgeGroups: models.AgeGroups,
		Genders:   models.Genders,
		Goals:     models.Goals,
		Tones:     models.Tones,
		Platforms: platforms,
	}})
}
