package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
	"github.com/richschool/compound-school/internal/core/ports"
)

func postEvent(t *testing.T, h *SessionHandler, body string, headers map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asPlayer(c, "s1", "s1")

	err := h.PostEvent(c)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		e.HTTPErrorHandler(err, c)
		return rec, nil
	}
	return rec, err
}

func TestSessionHandler_Create(t *testing.T) {
	e := newEcho()
	game := &stubGameService{
		createFn: func(ctx context.Context) (engine.View, error) {
			return viewOf("s1", domain.ScreenOnboarding, 0), nil
		},
	}
	auth := &stubAuthService{
		issueFn: func(sessionID string) (string, error) {
			if sessionID != "s1" {
				t.Fatalf("token issued for %q", sessionID)
			}
			return "player-token", nil
		},
	}
	h := NewSessionHandler(game, auth)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/sessions", nil), rec)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "player-token" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	links, _ := resp["_links"].(map[string]any)
	if links["events"] != "/v1/sessions/s1/events" {
		t.Fatalf("unexpected links: %v", links)
	}
	view, _ := resp["view"].(map[string]any)
	session, _ := view["session"].(map[string]any)
	if session["current_screen"] != "avatar" {
		t.Fatalf("unexpected view: %v", view)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	e := newEcho()
	game := &stubGameService{
		viewFn: func(ctx context.Context, id string) (engine.View, error) {
			return viewOf(id, domain.ScreenBoardGame, 1300), nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	asPlayer(c, "s1", "s1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"user_money":1300`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSessionHandler_Get_OtherSessionForbidden(t *testing.T) {
	e := newEcho()
	game := &stubGameService{
		viewFn: func(ctx context.Context, id string) (engine.View, error) {
			t.Fatalf("service should not be called")
			return engine.View{}, nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	asPlayer(c, "s1", "s2")

	if err := h.Get(c); !errors.Is(err, domain.ErrSessionForbidden) {
		t.Fatalf("expected ErrSessionForbidden, got %v", err)
	}
}

func TestSessionHandler_Get_TeacherMayReadAnySession(t *testing.T) {
	e := newEcho()
	game := &stubGameService{
		viewFn: func(ctx context.Context, id string) (engine.View, error) {
			return viewOf(id, domain.ScreenResult, 0), nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("role", domain.RoleTeacher)
	c.SetParamNames("id")
	c.SetParamValues("s7")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionHandler_Get_MissingClaims(t *testing.T) {
	e := newEcho()
	h := NewSessionHandler(&stubGameService{}, &stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	if err := h.Get(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionHandler_PostEvent_Dispatches(t *testing.T) {
	var got engine.Event
	game := &stubGameService{
		dispatchFn: func(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
			if id != "s1" || commandID != "cmd-1" {
				t.Fatalf("unexpected args: %s %s", id, commandID)
			}
			got = ev
			return viewOf(id, domain.ScreenChoice, 10000), nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	rec, err := postEvent(t, h, `{"type":"choose_option","situation":3,"option":"b"}`, map[string]string{"Idempotency-Key": "cmd-1"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != (engine.ChooseOption{Situation: 3, Option: "b"}) {
		t.Fatalf("unexpected event: %#v", got)
	}
}

func TestSessionHandler_PostEvent_RollUsesServiceDice(t *testing.T) {
	rolled := false
	game := &stubGameService{
		rollFn: func(ctx context.Context, id, commandID string) (engine.View, error) {
			rolled = true
			return viewOf(id, domain.ScreenBoardGame, 1000), nil
		},
		dispatchFn: func(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
			t.Fatalf("roll_dice must not be dispatched")
			return engine.View{}, nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	rec, err := postEvent(t, h, `{"type":"roll_dice"}`, nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !rolled || rec.Code != http.StatusOK {
		t.Fatalf("expected roll with 200, got rolled=%v code=%d", rolled, rec.Code)
	}
}

func TestSessionHandler_PostEvent_ZeroRateAccepted(t *testing.T) {
	var got engine.Event
	game := &stubGameService{
		dispatchFn: func(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
			got = ev
			return viewOf(id, domain.ScreenCompound, 0), nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	if _, err := postEvent(t, h, `{"type":"set_rate","rate":0}`, nil); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != (engine.SetRate{Rate: 0}) {
		t.Fatalf("unexpected event: %#v", got)
	}
}

func TestSessionHandler_PostEvent_Validation(t *testing.T) {
	game := &stubGameService{
		dispatchFn: func(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
			t.Fatalf("service should not be called")
			return engine.View{}, nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"type":`, http.StatusBadRequest},
		{"missing type", `{}`, http.StatusUnprocessableEntity},
		{"timer event", `{"type":"advance_token"}`, http.StatusUnprocessableEntity},
		{"avatar missing", `{"type":"select_avatar"}`, http.StatusUnprocessableEntity},
		{"unknown avatar", `{"type":"select_avatar","avatar":"dragon"}`, http.StatusUnprocessableEntity},
		{"option missing", `{"type":"choose_option","situation":1}`, http.StatusUnprocessableEntity},
		{"years too high", `{"type":"set_years","years":31}`, http.StatusUnprocessableEntity},
		{"rate missing", `{"type":"set_rate"}`, http.StatusUnprocessableEntity},
		{"unknown blank", `{"type":"submit_answer","blank":"blank9","word":"시간"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := postEvent(t, h, tt.body, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d (%s)", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSessionHandler_PostEvent_RejectionPropagates(t *testing.T) {
	game := &stubGameService{
		dispatchFn: func(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
			return engine.View{}, domain.ErrRejected
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	_, err := postEvent(t, h, `{"type":"enroll"}`, nil)
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestSessionHandler_Reset(t *testing.T) {
	e := newEcho()
	called := false
	game := &stubGameService{
		resetFn: func(ctx context.Context, id string) (engine.View, error) {
			called = true
			return viewOf(id, domain.ScreenOnboarding, 0), nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	asPlayer(c, "s1", "s1")

	if err := h.Reset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected reset with 200, got called=%v code=%d", called, rec.Code)
	}
}

func TestSessionHandler_Certificate(t *testing.T) {
	e := newEcho()
	game := &stubGameService{
		certificateFn: func(ctx context.Context, id string) (ports.Certificate, error) {
			return ports.Certificate{
				FileName:    "부자학교_수료증_민수.png",
				ContentType: "image/png",
				Data:        []byte("\x89PNG"),
			}, nil
		},
	}
	h := NewSessionHandler(game, &stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	asPlayer(c, "s1", "s1")

	if err := h.Certificate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="certificate.png"`) || !strings.Contains(cd, "UTF-8''%EB%B6%80") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if rec.Body.String() != "\x89PNG" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
