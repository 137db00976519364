package engine

import (
	"time"

	"github.com/richschool/compound-school/internal/core/domain"
)

// CanRoll reports whether the dice button is enabled.
func CanRoll(s domain.Session) bool {
	return s.CurrentScreen == domain.ScreenBoardGame &&
		!s.Roll.Rolling &&
		s.UserMoney < domain.GoalAmount
}

func (e *Engine) rollDice(s *domain.Session, ev RollDice, out *Outcome) error {
	if !CanRoll(*s) {
		return rejectf("roll not allowed")
	}
	if ev.Value < 1 || ev.Value > 6 {
		return domain.ErrInvalidDie
	}

	s.Roll = domain.RollState{Rolling: true, LastDice: ev.Value, StepsRemaining: ev.Value}
	out.schedule(e.timings.RollLead, AdvanceToken{Epoch: s.Epoch})
	return nil
}

// advanceToken walks one cell per continuation so every step is visible.
// Once the roll is spent, the next continuation resolves the landing.
func (e *Engine) advanceToken(s *domain.Session, ev AdvanceToken, out *Outcome, now time.Time) error {
	if ev.Epoch != s.Epoch || !s.Roll.Rolling {
		return domain.ErrStale
	}

	if s.Roll.StepsRemaining > 0 {
		s.BoardPosition = (s.BoardPosition + 1) % len(e.content.Board)
		s.Roll.StepsRemaining--
		out.schedule(e.timings.Step, AdvanceToken{Epoch: s.Epoch})
		return nil
	}

	cell := e.content.Board[s.BoardPosition]
	s.AddMoney(cell.Amount)
	if cell.Amount > 0 {
		s.TotalIncome += cell.Amount
	}
	entry := domain.BoardEntry{ID: now.UnixMilli(), Label: cell.Label, Amount: cell.Amount}
	s.BoardHistory = append([]domain.BoardEntry{entry}, s.BoardHistory...)
	s.Roll.Rolling = false

	out.Landed = &cell
	out.cue(domain.CueCoin)
	if s.UserMoney >= domain.GoalAmount {
		out.schedule(e.timings.Goal, GraduationNotice{Epoch: s.Epoch})
	}
	return nil
}

func (e *Engine) graduate(s *domain.Session, epoch string, out *Outcome) error {
	if epoch != s.Epoch {
		return domain.ErrStale
	}
	if s.CurrentScreen != domain.ScreenBoardGame || s.Roll.Rolling || s.UserMoney < domain.GoalAmount {
		return rejectf("goal not reached")
	}
	if err := transition(s, domain.ScreenChoice, out); err != nil {
		return err
	}
	s.Overlay = domain.OverlayGraduation
	out.cue(domain.CuePopup)
	return nil
}
