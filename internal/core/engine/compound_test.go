package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/richschool/compound-school/internal/core/domain"
)

func TestFutureValue(t *testing.T) {
	require.InDelta(t, 10200.0, FutureValue(10000, 0.02, 1), 1e-6)
	require.InDelta(t, 12100.0, FutureValue(10000, 0.10, 2), 1e-6)
	require.InDelta(t, 10000.0, FutureValue(10000, 0, 30), 1e-9)
}

func TestProject(t *testing.T) {
	p := Project(10000, 0.1, 2)
	require.InDelta(t, 10404.0, p.Baseline, 1e-6)
	require.InDelta(t, 12100.0, p.Scenario, 1e-6)
	require.InDelta(t, 1696.0, p.Gap, 1e-6)
	require.Nil(t, p.Outperformance)

	p = Project(10000, 0.01, 30)
	require.NotNil(t, p.Outperformance)
	require.Less(t, *p.Outperformance, 0.0)
	require.Greater(t, p.Gap, 0.0)

	p = Project(0, 0.1, 30)
	require.Nil(t, p.Outperformance)
}

func TestInitialRate(t *testing.T) {
	future := domain.ChoiceRecord{Category: domain.CategoryFuture}
	require.InDelta(t, 0.02, InitialRate(nil), 1e-9)
	require.InDelta(t, 0.05, InitialRate([]domain.ChoiceRecord{future, future}), 1e-9)

	many := make([]domain.ChoiceRecord, 20)
	for i := range many {
		many[i] = future
	}
	require.InDelta(t, domain.MaxRate, InitialRate(many), 1e-9)
}

func onResult(t *testing.T, e *Engine) domain.Session {
	t.Helper()
	s := domain.NewSession("s1", "epoch-1")
	s.CurrentScreen = domain.ScreenResult
	s.UserMoney = 20000
	s.UserChoices = []domain.ChoiceRecord{
		{SituationID: 1, ChoiceID: "b", Category: domain.CategoryFuture},
		{SituationID: 3, ChoiceID: "b", Category: domain.CategoryFuture},
	}
	return s
}

func TestStartCompound(t *testing.T) {
	e := newEngine()
	s, out := apply(t, e, onResult(t, e), StartCompound{})

	require.Equal(t, domain.ScreenCompound, s.CurrentScreen)
	require.Equal(t, domain.OverlayCompoundWelcome, s.Overlay)
	require.Equal(t, []domain.Cue{domain.CuePopup}, out.Cues)
	require.Equal(t, 20000, s.Compound.Principal)
	require.Equal(t, 1, s.Compound.Years)
	require.InDelta(t, 0.05, s.Compound.Rate, 1e-9)
}

func TestSetYears(t *testing.T) {
	e := newEngine()
	s, _ := apply(t, e, onResult(t, e), StartCompound{})

	for _, y := range []int{0, 31} {
		_, _, err := e.Apply(s, SetYears{Years: y}, t0)
		require.ErrorIs(t, err, domain.ErrOutOfRange)
	}

	s, out := apply(t, e, s, SetYears{Years: 14})
	require.Empty(t, out.Cues)

	s, out = apply(t, e, s, SetYears{Years: 15})
	require.Equal(t, domain.OverlayCompoundPraise, s.Overlay)
	require.Equal(t, []domain.Cue{domain.CuePopup}, out.Cues)

	s, _ = apply(t, e, s, DismissOverlay{})
	s, out = apply(t, e, s, SetYears{Years: 20})
	require.Empty(t, out.Cues, "praise is shown once per visit")
	require.Equal(t, domain.OverlayNone, s.Overlay)
}

func TestSetRate(t *testing.T) {
	e := newEngine()
	s, _ := apply(t, e, onResult(t, e), StartCompound{})

	s, _ = apply(t, e, s, SetRate{Rate: 0.12345})
	require.InDelta(t, 0.123, s.Compound.Rate, 1e-9)

	for _, r := range []float64{-0.01, 0.21} {
		_, _, err := e.Apply(s, SetRate{Rate: r}, t0)
		require.True(t, errors.Is(err, domain.ErrOutOfRange), "rate %v", r)
	}
}

func TestOpenQuiz_RequiresFinalYear(t *testing.T) {
	e := newEngine()
	s, _ := apply(t, e, onResult(t, e), StartCompound{})

	_, _, err := e.Apply(s, OpenQuiz{}, t0)
	require.ErrorIs(t, err, domain.ErrRejected)

	s, _ = apply(t, e, s, SetYears{Years: 30})
	s, _ = apply(t, e, s, OpenQuiz{})
	require.True(t, s.Compound.QuizOpen)
}
