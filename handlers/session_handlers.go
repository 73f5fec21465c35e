package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Mezsondra/transkribe/internal/reconcile"
	"github.com/Mezsondra/transkribe/internal/render"
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/utils"
)

// OpenSessionRequest identifies the transcript to open.
type OpenSessionRequest struct {
	TranscriptID string `json:"transcript_id" validate:"required,uuid4"`
}

// OpenSession loads a transcript and starts an editing session for it.
func (h *ApplicationHandler) OpenSession(c *fiber.Ctx) error {
	req := new(OpenSessionRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	transcriptID, err := uuid.Parse(req.TranscriptID)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid transcript id")
	}

	s, err := h.Sessions.Open(c.Context(), transcriptID)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"session_id": s.ID,
		"view":       s.View(),
	})
}

// CloseSession tears down an editing session. Unsaved changes are discarded.
func (h *ApplicationHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.Sessions.Close(c.Params("id")); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"closed": true})
}

// GetView returns the rendered transcript. An optional timestamp_mode query
// parameter switches the session's mode before rendering.
func (h *ApplicationHandler) GetView(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	if mode := c.Query("timestamp_mode"); mode != "" {
		s.SetMode(render.ParseMode(mode))
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.View())
}

// SetEditingRequest toggles edit mode.
type SetEditingRequest struct {
	Editing bool `json:"editing"`
}

// SetEditing switches edit mode on or off.
func (h *ApplicationHandler) SetEditing(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(SetEditingRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	if err := s.SetEditing(req.Editing); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"editing": req.Editing,
		"dirty":   s.Dirty(),
	})
}

// SetTimestampModeRequest selects which timestamp labels are visible.
type SetTimestampModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=utterance sentence none"`
}

// SetTimestampMode switches timestamp label visibility.
func (h *ApplicationHandler) SetTimestampMode(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(SetTimestampModeRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	s.SetMode(render.ParseMode(req.Mode))
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"mode": req.Mode})
}

// SubmitSurfaceRequest carries the edited surface of one utterance. An
// empty segment list is valid: it means the user wiped the utterance.
type SubmitSurfaceRequest struct {
	Segments []segment.Segment `json:"segments"`
}

// SubmitSurface records an edited utterance surface for the next save sweep.
func (h *ApplicationHandler) SubmitSurface(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid utterance index")
	}
	req := new(SubmitSurfaceRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	if err := s.SubmitSurface(index, req.Segments); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"dirty": true})
}

// SaveRequest controls whether the save reports back to the user.
type SaveRequest struct {
	Notify bool `json:"notify"`
}

// SaveTranscript runs one save through the pipeline. A save that finds
// nothing to persist succeeds with no_changes set.
func (h *ApplicationHandler) SaveTranscript(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(SaveRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	err = s.Save(req.Notify)
	if errors.Is(err, reconcile.ErrNoChanges) {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
			"saved":      false,
			"no_changes": true,
		})
	}
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"saved":  true,
		"notify": req.Notify,
	})
}

// SaveTitleRequest carries the new transcript title.
type SaveTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=500"`
}

// SaveTitle persists a new title.
func (h *ApplicationHandler) SaveTitle(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(SaveTitleRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	title := utils.SanitizeInput(req.Title)
	if title == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "title must not be blank")
	}
	if err := s.SaveTitle(c.Context(), title); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"title": title})
}

// RenameSpeakerRequest carries the new display name for a speaker id.
type RenameSpeakerRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// RenameSpeaker sets a speaker display name and saves immediately.
func (h *ApplicationHandler) RenameSpeaker(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(RenameSpeakerRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	speakerID := c.Params("speakerId")
	if err := s.RenameSpeaker(speakerID, utils.SanitizeInput(req.Name)); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"speaker": speakerID,
		"name":    utils.SanitizeInput(req.Name),
	})
}

// DeleteTranscript removes the transcript and closes the session.
func (h *ApplicationHandler) DeleteTranscript(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	if err := s.DeleteTranscript(c.Context()); err != nil {
		return h.respondDomainError(c, err)
	}
	if err := h.Sessions.Close(c.Params("id")); err != nil {
		h.Logger.WithError(err).Warn("failed to close session after delete")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// DeleteTranscriptByID removes a transcript record without requiring an open
// session; any sessions bound to it are closed first.
func (h *ApplicationHandler) DeleteTranscriptByID(c *fiber.Ctx) error {
	transcriptID, err := uuid.Parse(c.Params("transcriptId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid transcript id")
	}
	if err := h.Sessions.DeleteTranscript(c.Context(), transcriptID); err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
