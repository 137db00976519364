package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
	"github.com/richschool/compound-school/internal/core/ports"
)

type stubGameService struct {
	createFn      func(ctx context.Context) (engine.View, error)
	viewFn        func(ctx context.Context, id string) (engine.View, error)
	dispatchFn    func(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error)
	rollFn        func(ctx context.Context, id, commandID string) (engine.View, error)
	resetFn       func(ctx context.Context, id string) (engine.View, error)
	certificateFn func(ctx context.Context, id string) (ports.Certificate, error)
	classroomFn   func(ctx context.Context, limit int) ([]ports.SessionSummary, error)
	journalFn     func(ctx context.Context, id string, limit int) ([]ports.JournalEntry, error)
}

func (s *stubGameService) Create(ctx context.Context) (engine.View, error) {
	return s.createFn(ctx)
}

func (s *stubGameService) View(ctx context.Context, id string) (engine.View, error) {
	return s.viewFn(ctx, id)
}

func (s *stubGameService) Dispatch(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
	return s.dispatchFn(ctx, id, ev, commandID)
}

func (s *stubGameService) Roll(ctx context.Context, id, commandID string) (engine.View, error) {
	return s.rollFn(ctx, id, commandID)
}

func (s *stubGameService) Reset(ctx context.Context, id string) (engine.View, error) {
	return s.resetFn(ctx, id)
}

func (s *stubGameService) Certificate(ctx context.Context, id string) (ports.Certificate, error) {
	return s.certificateFn(ctx, id)
}

func (s *stubGameService) Classroom(ctx context.Context, limit int) ([]ports.SessionSummary, error) {
	return s.classroomFn(ctx, limit)
}

func (s *stubGameService) Journal(ctx context.Context, id string, limit int) ([]ports.JournalEntry, error) {
	return s.journalFn(ctx, id, limit)
}

func (s *stubGameService) EvictIdle(context.Context, time.Duration) int { return 0 }

type stubAuthService struct {
	issueFn func(sessionID string) (string, error)
	loginFn func(ctx context.Context, password string) (string, error)
}

func (s *stubAuthService) IssuePlayerToken(sessionID string) (string, error) {
	return s.issueFn(sessionID)
}

func (s *stubAuthService) TeacherLogin(ctx context.Context, password string) (string, error) {
	return s.loginFn(ctx, password)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// asPlayer sets the claims the Auth middleware would inject for a player
// token and the :id path parameter.
func asPlayer(c echo.Context, tokenSession, pathID string) {
	c.Set("role", domain.RolePlayer)
	c.Set("session_id", tokenSession)
	c.SetParamNames("id")
	c.SetParamValues(pathID)
}

func viewOf(id string, screen domain.Screen, money int) engine.View {
	return engine.View{Session: domain.Session{ID: id, CurrentScreen: screen, UserMoney: money}}
}
