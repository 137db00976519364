package domain

import (
	"maps"
	"slices"
	"time"
)

const (
	// GoalAmount is the board mini-game graduation threshold.
	GoalAmount = 10000

	// BoardSize is the number of cells on the cyclic board.
	BoardSize = 12

	// SituationCount is the number of binary-choice situations.
	SituationCount = 7

	// QuizBlankCount is the number of blanks the knowledge check has.
	QuizBlankCount = 3

	// MinDiaryRunes is the trimmed diary length that must be exceeded.
	MinDiaryRunes = 5

	// BaselineRate is the simulator's starting annual rate.
	BaselineRate = 0.02

	// RateBonusPerBet is added to the starting rate per future investment choice.
	RateBonusPerBet = 0.015

	// MaxRate is the highest rate the simulator accepts.
	MaxRate = 0.2

	// RateResolution is the step rates are quantised to.
	RateResolution = 0.001

	// MinYears is the shortest simulated horizon.
	MinYears = 1

	// MaxYears is the longest simulated horizon; the quiz opens there.
	MaxYears = 30

	// PraiseYears raises the praise overlay once per visit.
	PraiseYears = 15
)

// BoardEntry records one landing on the board. ID is the landing time in
// Unix milliseconds.
type BoardEntry struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// Time returns the landing time.
func (e BoardEntry) Time() time.Time {
	return time.UnixMilli(e.ID)
}

// ChoiceRecord is one resolved situation.
type ChoiceRecord struct {
	SituationID int      `json:"situationId"`
	ChoiceID    string   `json:"choiceId"`
	Label       string   `json:"label"`
	Cost        int      `json:"cost"`
	Reward      int      `json:"reward"`
	Category    Category `json:"category"`
}

// RollState tracks the single in-flight dice roll.
type RollState struct {
	Rolling        bool `json:"rolling"`
	LastDice       int  `json:"last_dice"`
	StepsRemaining int  `json:"steps_remaining"`
}

// CompoundParams are the simulator inputs, scoped to one visit of the
// compound screen and never persisted.
type CompoundParams struct {
	Principal   int     `json:"principal"`
	Years       int     `json:"years"`
	Rate        float64 `json:"rate"`
	PraiseShown bool    `json:"praise_shown"`
	QuizOpen    bool    `json:"quiz_open"`
}

// Session is the aggregate root for one playthrough.
type Session struct {
	ID             string               `json:"id"`
	UserName       string               `json:"user_name"`
	UserMoney      int                  `json:"user_money"`
	TotalIncome    int                  `json:"total_income"`
	TotalExpense   int                  `json:"total_expense"`
	SelectedAvatar Avatar               `json:"selected_avatar"`
	CurrentScreen  Screen               `json:"current_screen"`
	BoardPosition  int                  `json:"board_position"`
	BoardHistory   []BoardEntry         `json:"board_history"`
	UserChoices    []ChoiceRecord       `json:"user_choices"`
	DiaryText      string               `json:"diary_text"`
	QuizAnswers    map[QuizBlank]string `json:"quiz_answers"`
	QuizCompleted  bool                 `json:"quiz_completed"`

	// Epoch changes on every reset. Timer continuations carry the epoch they
	// were scheduled under and are dropped when it no longer matches.
	Epoch         string         `json:"epoch"`
	Roll          RollState      `json:"roll"`
	ChoiceStep    int            `json:"choice_step"`
	FlippedOption string         `json:"flipped_option,omitempty"`
	Compound      CompoundParams `json:"compound"`
	Overlay       Overlay        `json:"overlay,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewSession returns a session holding the documented defaults.
func NewSession(id, epoch string) Session {
	return Session{
		ID:            id,
		CurrentScreen: ScreenOnboarding,
		BoardHistory:  []BoardEntry{},
		UserChoices:   []ChoiceRecord{},
		QuizAnswers:   map[QuizBlank]string{},
		Epoch:         epoch,
		Compound:      CompoundParams{Years: MinYears, Rate: BaselineRate},
	}
}

// Clone returns a deep copy so reducers never alias the caller's slices.
func (s Session) Clone() Session {
	out := s
	out.BoardHistory = slices.Clone(s.BoardHistory)
	if out.BoardHistory == nil {
		out.BoardHistory = []BoardEntry{}
	}
	out.UserChoices = slices.Clone(s.UserChoices)
	if out.UserChoices == nil {
		out.UserChoices = []ChoiceRecord{}
	}
	out.QuizAnswers = maps.Clone(s.QuizAnswers)
	if out.QuizAnswers == nil {
		out.QuizAnswers = map[QuizBlank]string{}
	}
	return out
}

// AddMoney applies a signed amount, flooring the balance at zero.
func (s *Session) AddMoney(delta int) {
	s.UserMoney = max(0, s.UserMoney+delta)
}

// Busy reports whether a timer-driven step is still pending.
func (s Session) Busy() bool {
	return s.Roll.Rolling || s.FlippedOption != ""
}
