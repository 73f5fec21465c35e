package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Mezsondra/transkribe/internal/reconcile"
	"github.com/Mezsondra/transkribe/internal/session"
	"github.com/Mezsondra/transkribe/internal/transcript"
	"github.com/Mezsondra/transkribe/store"
	"github.com/Mezsondra/transkribe/utils"
)

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Sessions *session.Manager
	Logger   *logrus.Logger
	Validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(sessions *session.Manager, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Sessions: sessions,
		Logger:   logger,
		Validate: validator.New(),
	}
}

// lookupSession resolves the :id path parameter to an open session.
func (h *ApplicationHandler) lookupSession(c *fiber.Ctx) (*session.Session, error) {
	return h.Sessions.Get(c.Params("id"))
}

// respondDomainError maps domain errors onto HTTP status codes so every
// handler reports failures the same way.
func (h *ApplicationHandler) respondDomainError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrHighlightNotFound),
		errors.Is(err, session.ErrNoTranslation),
		errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, session.ErrReadOnly):
		status = fiber.StatusForbidden
	case errors.Is(err, session.ErrNotEditing),
		errors.Is(err, session.ErrNothingToUndo),
		errors.Is(err, transcript.ErrDuplicateSpeaker),
		errors.Is(err, reconcile.ErrPipelineClosed):
		status = fiber.StatusConflict
	case errors.Is(err, transcript.ErrIndexOutOfRange),
		errors.Is(err, transcript.ErrInvalidShape):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		h.Logger.WithError(err).Error("request failed")
	}
	return utils.RespondWithError(c, status, err.Error())
}

// parseAndValidate decodes the JSON body into req and runs struct
// validation. When it reports false the error response is already written
// and the handler returns the accompanying error as-is.
func (h *ApplicationHandler) parseAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, utils.RespondWithError(c, fiber.StatusBadRequest, "cannot parse request JSON: "+err.Error())
	}
	if err := h.Validate.Struct(req); err != nil {
		return false, utils.RespondWithError(c, fiber.StatusBadRequest,
			strings.Join(utils.FormatValidationErrors(err), "; "))
	}
	return true, nil
}
