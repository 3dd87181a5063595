package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
	"github.com/taskmasterhq/taskmaster-api/internal/realtime"
)

// Close codes for websocket auth failures. Distinct codes let clients tell
// a missing credential from an expired one from an identity mismatch.
const (
	closeMissingToken     = 4000
	closeInvalidToken     = 4001
	closeIdentityMismatch = 4003
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from app origins; token auth is the gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades GET /ws/:user_id and hands authenticated connections
// to the realtime registry. Auth failures close the socket with a specific
// code and never reach the registry.
type WSHandler struct {
	registry *realtime.Registry
	auth     ports.CredentialValidator
	log      zerolog.Logger
}

func NewWSHandler(registry *realtime.Registry, auth ports.CredentialValidator, log zerolog.Logger) *WSHandler {
	return &WSHandler{registry: registry, auth: auth, log: log}
}

type inboundFrame struct {
	Type string `json:"type"`
}

// Serve handles the websocket session for one connection.
func (h *WSHandler) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	token := c.QueryParam("token")
	if token == "" {
		return closeWith(conn, closeMissingToken, "missing token")
	}

	actor, err := h.auth.Validate(token)
	if err != nil {
		return closeWith(conn, closeInvalidToken, "invalid or expired token")
	}

	userID := c.Param("user_id")
	if actor.ID != userID {
		h.log.Warn().
			Str("token_user", actor.ID).
			Str("path_user", userID).
			Msg("websocket identity mismatch")
		return closeWith(conn, closeIdentityMismatch, "token does not match user")
	}

	client := h.registry.Connect(conn, actor.ID)
	defer h.registry.Disconnect(client)

	// Receive loop. Clients answer pings with {"type":"pong"}; anything
	// else is ignored. A read error ends the session.
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		var frame inboundFrame
		if json.Unmarshal(msg, &frame) == nil && frame.Type == "pong" {
			h.log.Debug().Str("user_id", actor.ID).Msg("websocket pong")
		}
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) error {
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	return conn.Close()
}
