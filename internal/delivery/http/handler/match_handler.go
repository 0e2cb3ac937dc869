package handler

import (
	"errors"

	"hirelane/internal/delivery/http/dto"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/domain/account"
	"hirelane/internal/domain/opportunity"
	"hirelane/internal/pkg/response"
	"hirelane/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/opportunities")
	grp.Get("/:kind/:id/match", middleware.RequireRole(account.RoleCandidate), h.GetMatch)
}

// GetMatch previews how well the caller fits a job or gig.
func (h *MatchHandler) GetMatch(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	kind, ok := opportunity.ParseKind(c.Params("kind"))
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Kind must be job or gig", nil, nil)
	}
	oppID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Preview(c.Context(), userID, kind, oppID)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	out := dto.MatchPreviewResponse{
		Opportunity: dto.NewOpportunitySummary(res.Opportunity),
		Source:      string(res.Source),
		Match:       res.Result,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapMatchingUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrOpportunityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Opportunity not found", nil, err)
	case errors.Is(err, usecase.ErrAccountNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Account not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
