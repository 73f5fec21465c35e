package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mezsondra/transkribe/utils"
)

// SearchRequest is a content-text query. Queries shorter than two characters
// return an empty result set rather than an error, the same way the search
// box simply stayed quiet for them.
type SearchRequest struct {
	Query     string `json:"query" validate:"required"`
	MatchCase bool   `json:"match_case"`
}

// Search runs a query and returns the match list with the cursor on the
// first match.
func (h *ApplicationHandler) Search(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(SearchRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Search(req.Query, req.MatchCase))
}

// NavigateRequest moves the search cursor.
type NavigateRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev"`
}

// Navigate steps the search cursor forward or backward with wraparound.
func (h *ApplicationHandler) Navigate(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(NavigateRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	match, index, ok := s.Navigate(req.Direction == "next")
	if !ok {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"count": 0})
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"match":   match,
		"current": index,
	})
}

// ReplaceAllRequest replaces every occurrence of Find with Replace.
type ReplaceAllRequest struct {
	Find      string `json:"find" validate:"required,min=1"`
	Replace   string `json:"replace"`
	MatchCase bool   `json:"match_case"`
}

// ReplaceAll rewrites canonical text and reports how many occurrences were
// replaced. A successful replace pushes one undo snapshot.
func (h *ApplicationHandler) ReplaceAll(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(ReplaceAllRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	count, err := s.ReplaceAll(req.Find, req.Replace, req.MatchCase)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"count":      count,
		"undo_depth": s.UndoDepth(),
	})
}

// Undo restores the most recent snapshot.
func (h *ApplicationHandler) Undo(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	if err := s.Undo(); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"undo_depth": s.UndoDepth(),
		"view":       s.View(),
	})
}
