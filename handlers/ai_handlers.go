package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mezsondra/transkribe/internal/session"
	"github.com/Mezsondra/transkribe/utils"
)

// TranslateRequest selects the target language.
type TranslateRequest struct {
	TargetLang string `json:"target_lang" validate:"required,min=2,max=16"`
}

// Translate produces a read-only translated view of the transcript.
func (h *ApplicationHandler) Translate(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(TranslateRequest)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	view, err := s.Translate(c.Context(), req.TargetLang)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, view)
}

// Summarize returns the AI summary and chapter list, generating it on first
// request and serving the cached copy afterwards.
func (h *ApplicationHandler) Summarize(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	result, err := s.Summarize(c.Context())
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// ExportRequestBody selects format and content toggles for an export.
type ExportRequestBody struct {
	Format            string `json:"format" validate:"required,oneof=txt srt vtt docx pdf"`
	IncludeTimestamps bool   `json:"include_timestamps"`
	IncludeSpeakers   bool   `json:"include_speakers"`
	IncludeHighlights bool   `json:"include_highlights"`
	ParagraphMode     string `json:"paragraph_mode" validate:"omitempty,oneof=utterance merged"`
}

// Export renders the transcript in the requested format via the AI service.
func (h *ApplicationHandler) Export(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	req := new(ExportRequestBody)
	if ok, err := h.parseAndValidate(c, req); !ok {
		return err
	}
	result, err := s.Export(c.Context(), session.ExportOptions{
		Format:            req.Format,
		IncludeTimestamps: req.IncludeTimestamps,
		IncludeSpeakers:   req.IncludeSpeakers,
		IncludeHighlights: req.IncludeHighlights,
		ParagraphMode:     req.ParagraphMode,
	})
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// CopyText returns the plain-text form of the transcript or translation
// pane; target comes from the "target" query parameter and defaults to the
// transcript.
func (h *ApplicationHandler) CopyText(c *fiber.Ctx) error {
	s, err := h.lookupSession(c)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	target := session.CopyTarget(c.Query("target", string(session.CopyTranscript)))
	text, err := s.CopyText(target)
	if err != nil {
		return h.respondDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"text": text})
}
