package engine

import "github.com/richschool/compound-school/internal/core/domain"

// Event is anything Apply accepts. The set is closed to this package.
type Event interface {
	Name() string
	event()
}

type (
	// SetName stores the player's name during onboarding.
	SetName struct{ Text string }
	// SelectAvatar picks one of the three avatars during onboarding.
	SelectAvatar struct{ Avatar domain.Avatar }
	// Enroll leaves onboarding for the board game.
	Enroll struct{}
	// DismissOverlay closes the current informational popup.
	DismissOverlay struct{}

	// RollDice starts a roll. Value is drawn by the caller from its dice source.
	RollDice struct{ Value int }
	// AdvanceToken moves the token one cell, or lands it once the roll is spent.
	AdvanceToken struct{ Epoch string }
	// GraduationNotice moves a player who reached the goal on to the choices.
	GraduationNotice struct{ Epoch string }
	// Graduate is the user-initiated form of GraduationNotice.
	Graduate struct{}

	// ChooseOption flips one card of the current situation. Situation is
	// the situation id as shown in the view, not its position.
	ChooseOption struct {
		Situation int
		Option    string
	}
	// RevealDone ends the reveal beat of the flipped card.
	RevealDone struct{ Epoch string }
	// ViewAccountBook leaves the choice activity once every situation is resolved.
	ViewAccountBook struct{}

	WriteDiary        struct{ Text string }
	ViewResult        struct{}
	BackToAccountBook struct{}

	// StartCompound opens the simulator from the result screen.
	StartCompound struct{}
	SetYears      struct{ Years int }
	SetRate       struct{ Rate float64 }
	// OpenQuiz opens the knowledge check once the simulation reaches 30 years.
	OpenQuiz     struct{}
	SubmitAnswer struct {
		Blank domain.QuizBlank
		Word  string
	}
	ClaimCertificate struct{}

	// Reset wipes the session. Epoch is the fresh epoch the new session gets.
	Reset struct{ Epoch string }
)

func (SetName) Name() string           { return "set_name" }
func (SelectAvatar) Name() string      { return "select_avatar" }
func (Enroll) Name() string            { return "enroll" }
func (DismissOverlay) Name() string    { return "dismiss_overlay" }
func (RollDice) Name() string          { return "roll_dice" }
func (AdvanceToken) Name() string      { return "advance_token" }
func (GraduationNotice) Name() string  { return "graduation_notice" }
func (Graduate) Name() string          { return "graduate" }
func (ChooseOption) Name() string      { return "choose_option" }
func (RevealDone) Name() string        { return "reveal_done" }
func (ViewAccountBook) Name() string   { return "view_account_book" }
func (WriteDiary) Name() string        { return "write_diary" }
func (ViewResult) Name() string        { return "view_result" }
func (BackToAccountBook) Name() string { return "back_to_account_book" }
func (StartCompound) Name() string     { return "start_compound" }
func (SetYears) Name() string          { return "set_years" }
func (SetRate) Name() string           { return "set_rate" }
func (OpenQuiz) Name() string          { return "open_quiz" }
func (SubmitAnswer) Name() string      { return "submit_answer" }
func (ClaimCertificate) Name() string  { return "claim_certificate" }
func (Reset) Name() string             { return "reset" }

func (SetName) event()           {}
func (SelectAvatar) event()      {}
func (Enroll) event()            {}
func (DismissOverlay) event()    {}
func (RollDice) event()          {}
func (AdvanceToken) event()      {}
func (GraduationNotice) event()  {}
func (Graduate) event()          {}
func (ChooseOption) event()      {}
func (RevealDone) event()        {}
func (ViewAccountBook) event()   {}
func (WriteDiary) event()        {}
func (ViewResult) event()        {}
func (BackToAccountBook) event() {}
func (StartCompound) event()     {}
func (SetYears) event()          {}
func (SetRate) event()           {}
func (OpenQuiz) event()          {}
func (SubmitAnswer) event()      {}
func (ClaimCertificate) event()  {}
func (Reset) event()             {}

// IsContinuation reports whether ev is delivered by a timer rather than a user.
func IsContinuation(ev Event) bool {
	switch ev.(type) {
	case AdvanceToken, GraduationNotice, RevealDone:
		return true
	}
	return false
}
