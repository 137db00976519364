package engine

import (
	"slices"

	"github.com/richschool/compound-school/internal/content"
	"github.com/richschool/compound-school/internal/core/domain"
)

// CurrentSituation returns the situation awaiting a choice, if any.
func (e *Engine) CurrentSituation(s domain.Session) (content.Situation, bool) {
	if s.CurrentScreen != domain.ScreenChoice || s.ChoiceStep >= len(e.content.Situations) {
		return content.Situation{}, false
	}
	return e.content.Situations[s.ChoiceStep], true
}

func (e *Engine) chooseOption(s *domain.Session, ev ChooseOption, out *Outcome) error {
	if err := requireScreen(s, domain.ScreenChoice); err != nil {
		return err
	}
	if s.FlippedOption != "" {
		return rejectf("a card is already being revealed")
	}
	situation, ok := e.CurrentSituation(*s)
	if !ok || ev.Situation != situation.ID {
		return rejectf("situation %d is not the current one", ev.Situation)
	}

	opt, ok := situation.Option(ev.Option)
	if !ok {
		return domain.ErrUnknownOption
	}
	if slices.ContainsFunc(s.UserChoices, func(c domain.ChoiceRecord) bool { return c.SituationID == situation.ID }) {
		return rejectf("situation %d already resolved", situation.ID)
	}

	s.AddMoney(opt.Cost + opt.Reward)
	if opt.Cost < 0 {
		s.TotalExpense += -opt.Cost
	}
	switch {
	case opt.Reward > 0:
		s.TotalIncome += opt.Reward
		out.cue(domain.CueCoin)
	case opt.Cost < 0:
		out.cue(domain.CueSpend)
	}

	record := domain.ChoiceRecord{
		SituationID: situation.ID,
		ChoiceID:    opt.ID,
		Label:       opt.Label,
		Cost:        opt.Cost,
		Reward:      opt.Reward,
		Category:    opt.Category,
	}
	s.UserChoices = append(s.UserChoices, record)
	s.FlippedOption = opt.ID

	out.Chosen = &record
	out.schedule(e.timings.Reveal, RevealDone{Epoch: s.Epoch})
	return nil
}

func (e *Engine) revealDone(s *domain.Session, ev RevealDone, out *Outcome) error {
	if ev.Epoch != s.Epoch || s.FlippedOption == "" {
		return domain.ErrStale
	}
	s.FlippedOption = ""
	if s.ChoiceStep < len(e.content.Situations)-1 {
		s.ChoiceStep++
		return nil
	}
	s.ChoiceStep = len(e.content.Situations)
	s.Overlay = domain.OverlayChoiceEnd
	out.cue(domain.CuePopup)
	return nil
}

// ChoicesDone reports whether every situation is resolved and revealed.
func (e *Engine) ChoicesDone(s domain.Session) bool {
	return len(s.UserChoices) == len(e.content.Situations) && s.FlippedOption == ""
}

func (e *Engine) viewAccountBook(s *domain.Session, out *Outcome) error {
	if !e.ChoicesDone(*s) {
		return rejectf("%d of %d situations resolved", len(s.UserChoices), len(e.content.Situations))
	}
	return transition(s, domain.ScreenAccountBook, out)
}
