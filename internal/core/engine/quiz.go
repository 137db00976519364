package engine

import "github.com/richschool/compound-school/internal/core/domain"

func (e *Engine) submitAnswer(s *domain.Session, ev SubmitAnswer, out *Outcome) error {
	if err := requireScreen(s, domain.ScreenCompound); err != nil {
		return err
	}
	if !s.Compound.QuizOpen {
		return rejectf("quiz is not open")
	}
	answer, ok := e.content.Answer(ev.Blank)
	if !ok {
		return domain.ErrUnknownBlank
	}
	if _, filled := s.QuizAnswers[ev.Blank]; filled {
		return domain.ErrBlankFilled
	}
	if ev.Word != answer {
		out.cue(domain.CueFail)
		return domain.ErrWrongAnswer
	}

	s.QuizAnswers[ev.Blank] = ev.Word
	out.cue(domain.CueCoin)
	if len(s.QuizAnswers) == domain.QuizBlankCount {
		s.QuizCompleted = true
	}
	return nil
}

func (e *Engine) claimCertificate(s *domain.Session, out *Outcome) error {
	if !s.QuizCompleted {
		return rejectf("quiz not completed")
	}
	if err := transition(s, domain.ScreenCertificate, out); err != nil {
		return err
	}
	out.cue(domain.CueCertificate)
	return nil
}
