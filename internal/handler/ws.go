package handler

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Crimson25/zulip/internal/model"
	"github.com/Crimson25/zulip/internal/service"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WSHandler struct {
	hub     *service.WSHub
	authSvc *service.AuthService
}

func NewWSHandler(hub *service.WSHub, authSvc *service.AuthService) *WSHandler {
	return &WSHandler{hub: hub, authSvc: authSvc}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		// Browsers cannot set headers on WS requests, so the JWT rides in
		// a query param.
		token := c.Query("token")
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "token required"})
		}

		identity, err := h.authSvc.ValidateToken(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("user_id", identity.UserID)
		c.Locals("email", identity.Email)
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(int64)
	email, _ := c.Locals("email").(string)

	client := &service.WSClient{
		Conn:      c,
		SessionID: uuid.New().String(),
		UserID:    userID,
		Email:     email,
		Send:      make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader loop
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		// Reset deadline on any message
		c.SetReadDeadline(time.Now().Add(60 * time.Second))

		var event model.WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "ping":
			pong, _ := json.Marshal(model.WSEvent{Type: "pong"})
			select {
			case client.Send <- pong:
			default:
			}
		default:
			log.Printf("WS: unknown event type %s from user %d", event.Type, userID)
		}
	}
}
