package engine

import (
	"strings"

	"github.com/richschool/compound-school/internal/core/domain"
)

func (e *Engine) setName(s *domain.Session, ev SetName) error {
	if err := requireScreen(s, domain.ScreenOnboarding); err != nil {
		return err
	}
	s.UserName = ev.Text
	return nil
}

func (e *Engine) selectAvatar(s *domain.Session, ev SelectAvatar) error {
	if err := requireScreen(s, domain.ScreenOnboarding); err != nil {
		return err
	}
	if !ev.Avatar.Valid() {
		return domain.ErrInvalidAvatar
	}
	s.SelectedAvatar = ev.Avatar
	return nil
}

// CanEnroll reports whether the enroll button is enabled.
func CanEnroll(s domain.Session) bool {
	return strings.TrimSpace(s.UserName) != "" && s.SelectedAvatar.Valid()
}

func (e *Engine) enroll(s *domain.Session, out *Outcome) error {
	if !CanEnroll(*s) {
		return rejectf("name and avatar are required")
	}
	if err := transition(s, domain.ScreenBoardGame, out); err != nil {
		return err
	}
	s.Overlay = domain.OverlayWelcome
	out.cue(domain.CuePopup)
	return nil
}
