package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/richschool/compound-school/internal/core/ports"
)

// ClassroomHandler serves the teacher overview of persisted sessions.
type ClassroomHandler struct {
	service ports.GameService
}

func NewClassroomHandler(service ports.GameService) *ClassroomHandler {
	return &ClassroomHandler{service: service}
}

// List handles GET /v1/classroom/sessions.
//
// @Summary      List persisted sessions, most recent first
// @Tags         classroom
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of sessions (default 50, max 200)"
// @Success      200    {object}  classroomResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/classroom/sessions [get]
func (h *ClassroomHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	sessions, err := h.service.Classroom(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classroomResponse{Sessions: sessions, Count: len(sessions)})
}

// Journal handles GET /v1/classroom/sessions/:id/journal.
//
// @Summary      Play journal of one session
// @Tags         classroom
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Session ID"
// @Param        limit  query     int     false  "Maximum number of entries (default 100, max 500)"
// @Success      200    {object}  journalResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/classroom/sessions/{id}/journal [get]
func (h *ClassroomHandler) Journal(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	id := c.Param("id")
	entries, err := h.service.Journal(c.Request().Context(), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, journalResponse{SessionID: id, Entries: entries})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
