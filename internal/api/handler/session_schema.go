package handler

import (
	"time"

	"github.com/richschool/compound-school/internal/core/engine"
	"github.com/richschool/compound-school/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// eventRequest is a UI event posted by the client. Only the fields of the
// named type are read.
type eventRequest struct {
	Type      string   `json:"type"      validate:"required,oneof=set_name select_avatar enroll dismiss_overlay roll_dice graduate choose_option view_account_book write_diary view_result back_to_account_book start_compound set_years set_rate open_quiz submit_answer claim_certificate"`
	Name      string   `json:"name"      validate:"max=40"`
	Avatar    string   `json:"avatar"    validate:"required_if=Type select_avatar,omitempty,oneof=jjangi eongi rami"`
	Situation int      `json:"situation" validate:"required_if=Type choose_option,omitempty,min=1"`
	Option    string   `json:"option"    validate:"required_if=Type choose_option"`
	Text      string   `json:"text"      validate:"max=2000"`
	Years     int      `json:"years"     validate:"required_if=Type set_years,omitempty,min=1,max=30"`
	Rate      *float64 `json:"rate"      validate:"required_if=Type set_rate"`
	Blank     string   `json:"blank"     validate:"required_if=Type submit_answer,omitempty,oneof=blank1 blank2 blank3"`
	Word      string   `json:"word"      validate:"required_if=Type submit_answer"`
}

type sessionLinks struct {
	Self        string `json:"self"`
	Events      string `json:"events"`
	Certificate string `json:"certificate"`
}

type createSessionResponse struct {
	Token string       `json:"token"`
	View  engine.View  `json:"view"`
	Links sessionLinks `json:"_links"`
}

type teacherLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type classroomResponse struct {
	Sessions []ports.SessionSummary `json:"sessions"`
	Count    int                    `json:"count"`
}

type journalResponse struct {
	SessionID string               `json:"session_id"`
	Entries   []ports.JournalEntry `json:"entries"`
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
