package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/richschool/compound-school/internal/core/domain"
)

func (e *Engine) writeDiary(s *domain.Session, ev WriteDiary) error {
	if err := requireScreen(s, domain.ScreenAccountBook); err != nil {
		return err
	}
	s.DiaryText = ev.Text
	return nil
}

// DiaryReady reports whether the diary is long enough to reveal the result.
func DiaryReady(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > domain.MinDiaryRunes
}

func (e *Engine) viewResult(s *domain.Session, out *Outcome) error {
	if s.CurrentScreen == domain.ScreenAccountBook && !DiaryReady(s.DiaryText) {
		return rejectf("diary too short")
	}
	return transition(s, domain.ScreenResult, out)
}

func (e *Engine) backToAccountBook(s *domain.Session, out *Outcome) error {
	if err := requireScreen(s, domain.ScreenResult); err != nil {
		return err
	}
	return transition(s, domain.ScreenAccountBook, out)
}
