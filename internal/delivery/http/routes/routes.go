package routes

import (
	"net/http"

	"hirelane/internal/delivery/http/handler"
	v1 "hirelane/internal/delivery/http/routes/v1"
	"hirelane/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Deps struct {
	Health  *handler.HealthHandler
	WS      *ws.Handler
	Metrics http.Handler
	V1      v1.Handlers
}

type Registry struct {
	deps Deps
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerRealtime(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.deps.Health != nil {
		r.deps.Health.RegisterRoutes(app)
	}
	if r.deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.deps.Metrics))
	}
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.deps.WS != nil {
		app.Get("/ws", r.deps.WS.HandleWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps.V1)
}
