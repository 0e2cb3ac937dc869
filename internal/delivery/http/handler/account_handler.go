package handler

import (
	"errors"

	"hirelane/internal/delivery/http/dto"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/pkg/response"
	"hirelane/internal/usecase"
	ucaccount "hirelane/internal/usecase/account"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccountHandler struct {
	uc usecase.AccountUsecase
}

func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

func (h *AccountHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me/profile", h.UpdateProfile)
}

func (h *AccountHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	acc, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapAccountUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAccountResponse(acc))
}

func (h *AccountHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	acc, err := h.uc.UpdateProfile(c.Context(), userID, ucaccount.UpdateProfileInput{
		FullName:           req.FullName,
		Skills:             req.Skills,
		ExperienceYears:    req.ExperienceYears,
		EducationLevel:     req.EducationLevel,
		LocationPreference: req.LocationPreference,
		CompanyName:        req.CompanyName,
		Resume:             req.Resume,
	})
	if err != nil {
		return mapAccountUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAccountResponse(acc))
}

func mapAccountUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucaccount.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, ucaccount.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Account not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
