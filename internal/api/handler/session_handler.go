package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/richschool/compound-school/internal/core/ports"
)

// SessionHandler handles HTTP requests for game sessions.
type SessionHandler struct {
	service ports.GameService
	auth    ports.AuthService
}

func NewSessionHandler(service ports.GameService, auth ports.AuthService) *SessionHandler {
	return &SessionHandler{service: service, auth: auth}
}

// Create handles POST /v1/sessions.
//
// @Summary      Start a new playthrough
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  createSessionResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	view, err := h.service.Create(c.Request().Context())
	if err != nil {
		return err
	}

	token, err := h.auth.IssuePlayerToken(view.Session.ID)
	if err != nil {
		return fmt.Errorf("issue player token: %w", err)
	}

	return c.JSON(http.StatusCreated, createSessionResponse{
		Token: token,
		View:  view,
		Links: toLinks(view.Session.ID),
	})
}

// Get handles GET /v1/sessions/:id.
//
// @Summary      Get the derived view of a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  engine.View
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/sessions/{id} [get]
func (h *SessionHandler) Get(c echo.Context) error {
	id, err := authorizeSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.View(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// PostEvent handles POST /v1/sessions/:id/events.
//
// @Summary      Apply a UI event to a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string        true   "Session ID"
// @Param        Idempotency-Key  header    string        false  "Client command id; retries with the same key are applied once"
// @Param        body             body      eventRequest  true   "Event"
// @Success      200              {object}  engine.View
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/sessions/{id}/events [post]
func (h *SessionHandler) PostEvent(c echo.Context) error {
	id, err := authorizeSession(c)
	if err != nil {
		return err
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	commandID := c.Request().Header.Get("Idempotency-Key")

	if req.Type == "roll_dice" {
		view, err := h.service.Roll(ctx, id, commandID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, view)
	}

	view, err := h.service.Dispatch(ctx, id, toEvent(req), commandID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Reset handles DELETE /v1/sessions/:id.
//
// @Summary      Reset a session to onboarding and erase its snapshot
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  engine.View
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/sessions/{id} [delete]
func (h *SessionHandler) Reset(c echo.Context) error {
	id, err := authorizeSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.Reset(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Certificate handles GET /v1/sessions/:id/certificate.png.
//
// @Summary      Download the completion certificate
// @Tags         sessions
// @Produce      png
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {file}    binary
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/sessions/{id}/certificate.png [get]
func (h *SessionHandler) Certificate(c echo.Context) error {
	id, err := authorizeSession(c)
	if err != nil {
		return err
	}

	crt, err := h.service.Certificate(c.Request().Context(), id)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, contentDisposition(crt.FileName))
	return c.Blob(http.StatusOK, crt.ContentType, crt.Data)
}

// contentDisposition carries an ASCII fallback plus the UTF-8 file name.
func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="certificate.png"; filename*=UTF-8''%s`, url.PathEscape(name))
}
