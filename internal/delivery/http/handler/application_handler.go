package handler

import (
	"errors"
	"strings"

	"hirelane/internal/delivery/http/dto"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/domain/account"
	"hirelane/internal/domain/application"
	"hirelane/internal/pkg/response"
	"hirelane/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	candidate := middleware.RequireRole(account.RoleCandidate)
	reviewer := middleware.RequireRole(account.RoleEmployer, account.RoleAdmin)

	grp := r.Group("/applications")
	grp.Post("/", candidate, h.Apply)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/transition", reviewer, h.Transition)
	grp.Post("/:id/accept", candidate, h.Accept)
	grp.Post("/:id/decline", candidate, h.Decline)
	grp.Post("/:id/withdraw", candidate, h.Withdraw)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.ApplyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in := usecase.ApplyInput{CoverLetter: strings.TrimSpace(req.CoverLetter)}
	if req.JobID != nil {
		in.JobID = *req.JobID
	}
	if req.GigID != nil {
		in.GigID = *req.GigID
	}

	app, err := h.uc.Apply(c.Context(), actor, in)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	app, err := h.uc.Get(c.Context(), actor, id)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) List(c fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	apps, err := h.uc.List(c.Context(), actor, usecase.ApplicationListParams{
		Status: application.Status(strings.TrimSpace(c.Query("status"))),
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, dto.NewApplicationResponse(app))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ApplicationHandler) Transition(c fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	var req dto.TransitionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	status := application.Status(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown status", nil, nil)
	}

	app, err := h.uc.Transition(c.Context(), actor, id, usecase.TransitionInput{
		Status:    status,
		Note:      req.Note,
		Interview: req.Interview,
		Offer:     req.Offer,
	})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) Accept(c fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}

	app, err := h.uc.AcceptOffer(c.Context(), actor, id)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) Decline(c fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	reason, err := bindReason(c)
	if err != nil {
		return err
	}

	app, err := h.uc.DeclineOffer(c.Context(), actor, id, reason)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) Withdraw(c fiber.Ctx) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	reason, err := bindReason(c)
	if err != nil {
		return err
	}

	app, err := h.uc.Withdraw(c.Context(), actor, id, reason)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func actorAndID(c fiber.Ctx) (application.Actor, uuid.UUID, error) {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return application.Actor{}, uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return application.Actor{}, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return actor, id, nil
}

// bindReason accepts an empty body.
func bindReason(c fiber.Ctx) (string, error) {
	if len(c.Body()) == 0 {
		return "", nil
	}
	var req dto.ReasonRequest
	if err := c.Bind().Body(&req); err != nil {
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return strings.TrimSpace(req.Reason), nil
}

func mapApplicationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	detail := map[string]string{"reason": err.Error()}
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, application.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, application.ErrValidation), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", detail, err)
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, usecase.ErrOpportunityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Opportunity not found", nil, err)
	case errors.Is(err, usecase.ErrAccountNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Account not found", nil, err)
	case errors.Is(err, usecase.ErrOpportunityClosed):
		return middleware.NewAppError(fiber.StatusConflict, "Opportunity is closed", nil, err)
	case errors.Is(err, usecase.ErrDuplicateApplication):
		return middleware.NewAppError(fiber.StatusConflict, "Active application already exists", nil, err)
	case errors.Is(err, application.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Invalid status transition", detail, err)
	case errors.Is(err, application.ErrNoOfferAvailable):
		return middleware.NewAppError(fiber.StatusConflict, "No offer available", nil, err)
	case errors.Is(err, application.ErrOfferExpired):
		return middleware.NewAppError(fiber.StatusGone, "Offer expired", nil, err)
	case errors.Is(err, application.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Application was modified concurrently", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
