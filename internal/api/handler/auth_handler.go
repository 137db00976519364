package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/richschool/compound-school/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TeacherLogin exchanges the classroom password for a teacher token.
//
// @Summary      Teacher login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      teacherLoginRequest  true  "Classroom password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/teacher [post]
func (h *AuthHandler) TeacherLogin(c echo.Context) error {
	var req teacherLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, err := h.authService.TeacherLogin(c.Request().Context(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
