package app

import (
	"context"
	"fmt"
	"strings"

	"hirelane/internal/delivery/http/handler"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/delivery/http/routes"
	v1 "hirelane/internal/delivery/http/routes/v1"
	"hirelane/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app. The returned cleanup
// stops the websocket hub and releases the container.
func Bootstrap(c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(c)
	return app, func() error {
		stopHub()
		return c.Close()
	}, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	registry := routes.NewRegistry(routes.Deps{
		Health:  handler.NewHealthHandler(c.Status),
		WS:      ws.NewHandler(c.Hub, c.AuthMiddleware, c.Logger),
		Metrics: c.Metrics.Handler(),
		V1: v1.Handlers{
			AuthMiddleware: c.AuthMiddleware,
			Auth:           handler.NewAuthHandler(c.Auth),
			Account:        handler.NewAccountHandler(c.Account),
			Match:          handler.NewMatchHandler(c.Matching),
			Recommendation: handler.NewRecommendationHandler(c.Recommendations),
			Application:    handler.NewApplicationHandler(c.Applications),
			Resume:         handler.NewResumeHandler(c.Resume),
			Status:         handler.NewStatusHandler(c.Status),
		},
	})
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
