package handler

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/Crimson25/zulip/internal/model"
	"github.com/Crimson25/zulip/internal/service"
	"github.com/Crimson25/zulip/internal/validator"

	"github.com/gofiber/fiber/v2"
)

type DraftHandler struct {
	draftSvc *service.DraftService
	userSvc  *service.UserService
	hub      *service.WSHub
}

func NewDraftHandler(draftSvc *service.DraftService, userSvc *service.UserService, hub *service.WSHub) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc, userSvc: userSvc, hub: hub}
}

// Create bulk-creates drafts for the authenticated user. The batch is
// all-or-nothing: the first invalid draft rejects the whole request and
// nothing is persisted.
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int64)

	user, err := h.userSvc.ByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(401).JSON(fiber.Map{"error": "unknown user"})
		}
		return draftError(c, err)
	}

	raw, argErr := draftsArg(c)
	if argErr != "" {
		return c.Status(400).JSON(fiber.Map{"error": argErr})
	}

	inputs, err := validator.ParseDrafts(raw)
	if err != nil {
		return draftError(c, err)
	}

	created, err := h.draftSvc.CreateBatch(c.Context(), user, inputs)
	if err != nil {
		return draftError(c, err)
	}

	ids := make([]int64, len(created))
	for i, d := range created {
		ids[i] = d.ID
	}

	h.notifyOwner(c, user.ID, created)

	return c.JSON(fiber.Map{"ids": ids})
}

// List returns the user's drafts in last-edit order.
func (h *DraftHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int64)

	drafts, err := h.draftSvc.ListByOwner(c.Context(), userID)
	if err != nil {
		return draftError(c, err)
	}

	return c.JSON(fiber.Map{"count": len(drafts), "drafts": drafts})
}

// draftsArg extracts the raw drafts payload from either a form field or a
// JSON body. The JSON body may carry the array directly or as an encoded
// string, matching what the various clients send.
func draftsArg(c *fiber.Ctx) ([]byte, string) {
	if v := c.FormValue("drafts"); v != "" {
		return []byte(v), ""
	}

	if strings.Contains(c.Get("Content-Type"), "application/json") {
		var body struct {
			Drafts json.RawMessage `json:"drafts"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return nil, `Argument "drafts" is not valid JSON.`
		}
		if len(body.Drafts) == 0 {
			return nil, "Missing 'drafts' argument"
		}
		// A string value is a JSON-encoded array; unwrap it.
		if body.Drafts[0] == '"' {
			var inner string
			if err := json.Unmarshal(body.Drafts, &inner); err != nil {
				return nil, `Argument "drafts" is not valid JSON.`
			}
			return []byte(inner), ""
		}
		return body.Drafts, ""
	}

	return nil, "Missing 'drafts' argument"
}

// notifyOwner pushes the created drafts to the owner's other sessions.
// Best-effort: a rendering failure is logged, never surfaced.
func (h *DraftHandler) notifyOwner(c *fiber.Ctx, userID int64, created []*model.Draft) {
	if h.hub == nil || len(created) == 0 {
		return
	}

	outs := make([]*model.DraftOut, 0, len(created))
	for _, d := range created {
		out, err := h.draftSvc.Render(c.Context(), d)
		if err != nil {
			log.Printf("[DRAFTS] render for event failed: %v", err)
			return
		}
		outs = append(outs, out)
	}

	data, err := json.Marshal(model.WSDraftsAdded{Drafts: outs})
	if err != nil {
		return
	}
	h.hub.NotifyUser(userID, &model.WSEvent{Type: "drafts:add", Data: data})
}

// draftError maps validation failures to 400 with their message verbatim
// and everything else to a logged 500.
func draftError(c *fiber.Ctx, err error) error {
	var vErr *validator.Error
	var uidErr *service.InvalidUserIDError
	switch {
	case errors.As(err, &vErr),
		errors.As(err, &uidErr),
		errors.Is(err, service.ErrContentContainsNull),
		errors.Is(err, service.ErrTopicContainsNull),
		errors.Is(err, service.ErrNegativeTimestamp),
		errors.Is(err, service.ErrStreamCardinality),
		errors.Is(err, service.ErrInvalidStreamID):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[DRAFTS ERROR] %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
