package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/richschool/compound-school/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - a player token must name its session.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	sessionID, _ := c.Get("session_id").(string)
	if role == domain.RolePlayer && sessionID == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing session identity")
	}

	return domain.Claims{Role: role, SessionID: sessionID}, nil
}

// authorizeSession returns the :id path parameter when the caller may act
// on that session.
func authorizeSession(c echo.Context) (string, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return "", err
	}
	id := c.Param("id")
	if !claims.CanAccess(id) {
		return "", fmt.Errorf("session %s: %w", id, domain.ErrSessionForbidden)
	}
	return id, nil
}
