package handler

import (
	"errors"

	"hirelane/internal/ai"
	"hirelane/internal/delivery/http/dto"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/domain/resume"
	"hirelane/internal/pkg/response"
	"hirelane/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/resumes")
	grp.Post("/completeness", h.Completeness)
	grp.Post("/keywords", h.Keywords)
	grp.Post("/generate", h.Generate)
	grp.Post("/improve", h.Improve)
	grp.Post("/suggest-keywords", h.SuggestKeywords)
}

func (h *ResumeHandler) Completeness(c fiber.Ctx) error {
	var req resume.Resume
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Completeness(req))
}

func (h *ResumeHandler) Keywords(c fiber.Ctx) error {
	var req dto.KeywordsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	rep, err := h.uc.Keywords(req.Text)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}

func (h *ResumeHandler) Generate(c fiber.Ctx) error {
	var req dto.GenerateResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	r, rep, err := h.uc.Generate(c.Context(), ai.ResumeBrief{
		FullName:    req.FullName,
		Email:       req.Email,
		TargetRole:  req.TargetRole,
		Background:  req.Background,
		Skills:      req.Skills,
		Preferences: req.Preferences,
	})
	if err != nil {
		return mapResumeUsecaseError(err)
	}

	data := map[string]any{
		"resume":       r,
		"completeness": rep,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *ResumeHandler) Improve(c fiber.Ctx) error {
	var req dto.ImproveSectionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	out, err := h.uc.Improve(c.Context(), req.Section, req.Text)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"text": out})
}

func (h *ResumeHandler) SuggestKeywords(c fiber.Ctx) error {
	var req dto.SuggestKeywordsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	kws, err := h.uc.SuggestKeywords(c.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string][]string{"keywords": kws})
}

func mapResumeUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Input must not be empty", nil, err)
	case errors.Is(err, ai.ErrProviderUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "AI provider unavailable", nil, err)
	case errors.Is(err, ai.ErrResponseUnparseable):
		return middleware.NewAppError(fiber.StatusBadGateway, "AI provider returned an unusable response", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
