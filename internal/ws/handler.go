package ws

import (
	"net/http"
	"strings"

	"hirelane/internal/logger"
	"hirelane/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Authenticator validates the access token presented on upgrade.
type Authenticator interface {
	Authenticate(token string) (jwt.Claims, error)
}

type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger *zap.Logger
}

func NewHandler(hub *Hub, auth Authenticator, log *zap.Logger) *Handler {
	return &Handler{hub: hub, auth: auth, logger: logger.OrNop(log).Named("ws")}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS upgrades an authenticated request. Browsers cannot set headers
// on a websocket handshake, so the token may also come as ?token=.
func (h *Handler) HandleWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.auth == nil {
		return fiber.ErrServiceUnavailable
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		if v, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer "); ok {
			token = strings.TrimSpace(v)
		}
	}
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	claims, err := h.auth.Authenticate(token)
	if err != nil {
		return err
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, claims.UserID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
