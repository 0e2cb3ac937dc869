package v1

import (
	"hirelane/internal/delivery/http/handler"
	"hirelane/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	AuthMiddleware *middleware.AuthMiddleware

	Auth           *handler.AuthHandler
	Account        *handler.AccountHandler
	Match          *handler.MatchHandler
	Recommendation *handler.RecommendationHandler
	Application    *handler.ApplicationHandler
	Resume         *handler.ResumeHandler
	Status         *handler.StatusHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.AuthMiddleware == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", h.AuthMiddleware.Middleware())
	if h.Account != nil {
		h.Account.RegisterRoutes(protected)
	}
	if h.Application != nil {
		h.Application.RegisterRoutes(protected)
	}
	if h.Resume != nil {
		h.Resume.RegisterRoutes(protected)
	}
	if h.Status != nil {
		h.Status.RegisterRoutes(protected)
	}
	if h.Match != nil {
		h.Match.RegisterRoutes(protected)
	}
	if h.Recommendation != nil {
		h.Recommendation.RegisterRoutes(protected)
	}
}
