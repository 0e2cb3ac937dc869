package handler

import (
	"hirelane/internal/pkg/response"
	"hirelane/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	uc usecase.StatusUsecase
}

func NewHealthHandler(uc usecase.StatusUsecase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/healthz", h.Live)
	r.Get("/readyz", h.Ready)
}

func (h *HealthHandler) Live(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"status": "up"})
}

// Ready fails only on the database; the cache is optional.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	dbOK, redisOK := h.uc.Ready(c.Context())
	data := map[string]bool{"database": dbOK, "redis": redisOK}
	if !dbOK {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
