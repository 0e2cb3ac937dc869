package handler

import (
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/domain/account"
	"hirelane/internal/pkg/response"
	"hirelane/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatusHandler struct {
	uc usecase.StatusUsecase
}

func NewStatusHandler(uc usecase.StatusUsecase) *StatusHandler {
	return &StatusHandler{uc: uc}
}

func (h *StatusHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/admin/status", middleware.RequireRole(account.RoleAdmin), h.GetStatus)
}

func (h *StatusHandler) GetStatus(c fiber.Ctx) error {
	status, err := h.uc.GetStatus(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to get system status", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, status)
}
