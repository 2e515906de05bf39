package handler

import (
	"encoding/json"

	"github.com/Crimson25/zulip/internal/model"
	"github.com/Crimson25/zulip/internal/repository"
	"github.com/Crimson25/zulip/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userRepo  *repository.UserRepository
	draftRepo *repository.DraftRepository
	wsHub     *service.WSHub
}

func NewAdminHandler(userRepo *repository.UserRepository, draftRepo *repository.DraftRepository, wsHub *service.WSHub) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, draftRepo: draftRepo, wsHub: wsHub}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	totalUsers, _ := h.userRepo.CountTotal(c.Context())
	totalDrafts, _ := h.draftRepo.CountTotal(c.Context())
	online := h.wsHub.OnlineCount()

	return c.JSON(fiber.Map{
		"users_total":     totalUsers,
		"drafts_total":    totalDrafts,
		"sessions_online": online,
	})
}

func (h *AdminHandler) Notice(c *fiber.Ctx) error {
	var req model.WSAnnounce
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	data, _ := json.Marshal(req)
	h.wsHub.Broadcast(&model.WSEvent{
		Type: "server:notice",
		Data: data,
	})

	return c.JSON(fiber.Map{"ok": true, "online": h.wsHub.OnlineCount()})
}
