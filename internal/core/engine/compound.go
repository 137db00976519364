package engine

import (
	"math"

	"github.com/richschool/compound-school/internal/core/domain"
)

// FutureValue is pv grown at rate, compounded yearly, for years.
func FutureValue(pv, rate float64, years int) float64 {
	return pv * math.Pow(1+rate, float64(years))
}

// Projection compares the baseline savings rate with the player's rate.
// Values are unrounded; presentation floors them.
type Projection struct {
	Principal    int     `json:"principal"`
	Years        int     `json:"years"`
	BaselineRate float64 `json:"baseline_rate"`
	Rate         float64 `json:"rate"`
	Baseline     float64 `json:"baseline"`
	Scenario     float64 `json:"scenario"`
	Gap          float64 `json:"gap"`
	// Outperformance is the scenario's percentage lead over the baseline. It
	// is only reported at the final year, and never for a zero principal.
	Outperformance *float64 `json:"outperformance,omitempty"`
}

// Project computes the comparison for the given parameters.
func Project(principal int, rate float64, years int) Projection {
	pv := float64(principal)
	p := Projection{
		Principal:    principal,
		Years:        years,
		BaselineRate: domain.BaselineRate,
		Rate:         rate,
		Baseline:     FutureValue(pv, domain.BaselineRate, years),
		Scenario:     FutureValue(pv, rate, years),
	}
	p.Gap = math.Abs(p.Scenario - p.Baseline)
	if years == domain.MaxYears && p.Baseline > 0 {
		pct := (p.Scenario - p.Baseline) / p.Baseline * 100
		p.Outperformance = &pct
	}
	return p
}

// InitialRate is the starting rate of the simulator: the baseline plus a
// bonus for every future-investment choice.
func InitialRate(choices []domain.ChoiceRecord) float64 {
	n := CategoryCount(choices, domain.CategoryFuture)
	return min(domain.BaselineRate+domain.RateBonusPerBet*float64(n), domain.MaxRate)
}

func enterCompound(s domain.Session) domain.CompoundParams {
	return domain.CompoundParams{
		Principal: s.UserMoney,
		Years:     domain.MinYears,
		Rate:      InitialRate(s.UserChoices),
	}
}

func (e *Engine) startCompound(s *domain.Session, out *Outcome) error {
	if err := requireScreen(s, domain.ScreenResult); err != nil {
		return err
	}
	if err := transition(s, domain.ScreenCompound, out); err != nil {
		return err
	}
	s.Compound = enterCompound(*s)
	s.Overlay = domain.OverlayCompoundWelcome
	out.cue(domain.CuePopup)
	return nil
}

func (e *Engine) setYears(s *domain.Session, ev SetYears, out *Outcome) error {
	if err := requireScreen(s, domain.ScreenCompound); err != nil {
		return err
	}
	if ev.Years < domain.MinYears || ev.Years > domain.MaxYears {
		return domain.ErrOutOfRange
	}
	s.Compound.Years = ev.Years
	if ev.Years >= domain.PraiseYears && !s.Compound.PraiseShown {
		s.Compound.PraiseShown = true
		s.Overlay = domain.OverlayCompoundPraise
		out.cue(domain.CuePopup)
	}
	return nil
}

func (e *Engine) setRate(s *domain.Session, ev SetRate) error {
	if err := requireScreen(s, domain.ScreenCompound); err != nil {
		return err
	}
	if math.IsNaN(ev.Rate) || ev.Rate < 0 || ev.Rate > domain.MaxRate {
		return domain.ErrOutOfRange
	}
	s.Compound.Rate = math.Round(ev.Rate/domain.RateResolution) * domain.RateResolution
	return nil
}

func (e *Engine) openQuiz(s *domain.Session) error {
	if err := requireScreen(s, domain.ScreenCompound); err != nil {
		return err
	}
	if s.Compound.Years != domain.MaxYears {
		return rejectf("quiz opens at %d years", domain.MaxYears)
	}
	s.Compound.QuizOpen = true
	return nil
}
