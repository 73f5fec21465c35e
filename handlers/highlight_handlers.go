package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Mezsondra/transkribe/internal/session"
	"github.com/Mezsondra/transkribe/utils"
)

// CreateHighlightRequest creates a highlight. Time-based highlights carry
// start_time and end_time; text-based ones carry the utterance index that
// anchors the selection.
type CreateHighlightRequest struct {
	Text           string `json:"text" validate:"required,min=1"`
	StartTime      *int64 `json:"start_time"`
	EndTime        *int64 `json:"end_time"`
	UtteranceIndex int    `json:"utterance_index"`
	Color          string `json:"color"`
	Note           string `json:"note" validate:"max=2000"`
}

// CreateHighlight persists a highlight and applies it to the session.
func (h *ApplicationHandler) CreateHighlight(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(CreateHighlightRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "start_time and end_time must be set together")
	}
	if req.StartTime != nil && *req.EndTime < *req.StartTime {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "end_time must not precede start_time")
	}
	created, err := s.CreateHighlight(c.Context(), session.CreateHighlightRequest{
		Text:           req.Text,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		UtteranceIndex: req.UtteranceIndex,
		Color:          req.Color,
		Note:           req.Note,
	})
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, created)
}

// ListHighlights returns the session's highlights with orphan flags.
func (h *ApplicationHandler) ListHighlights(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Highlights())
}

// DeleteHighlight removes a highlight from storage and the session.
func (h *ApplicationHandler) DeleteHighlight(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	highlightID, err := uuid.Parse(c.Params("highlightId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid highlight id")
	}
	if err := s.DeleteHighlight(c.Context(), highlightID); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
