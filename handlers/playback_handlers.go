package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Mezsondra/transkribe/utils"
)

// GetPosition maps a playback time (query parameter time_ms) onto the
// active utterance and word. While a selection gesture is in progress the
// response is suppressed so the client leaves the selection alone.
func (h *ApplicationHandler) GetPosition(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	timeMs, err := strconv.ParseInt(c.Query("time_ms"), 10, 64)
	if err != nil || timeMs < 0 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "query parameter time_ms must be a non-negative millisecond offset")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Locate(timeMs))
}

// SetSelectionRequest records whether a text selection gesture is active.
type SetSelectionRequest struct {
	Active bool `json:"active"`
}

// SetSelection toggles selection-in-progress state.
func (h *ApplicationHandler) SetSelection(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(SetSelectionRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	s.SetSelecting(req.Active)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"active": req.Active})
}
