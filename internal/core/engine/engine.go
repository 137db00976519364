// Package engine is the screen state machine of a playthrough.
//
// Every user action and every timer continuation is an Event. Apply is a
// pure function of (Session, Event): it returns the next session together
// with an Outcome describing what the caller must do next (sound cues to
// play, continuations to schedule). Apply never performs I/O and never
// reads the clock; the caller passes the current time in.
package engine

import (
	"fmt"
	"time"

	"github.com/richschool/compound-school/internal/content"
	"github.com/richschool/compound-school/internal/core/domain"
)

// Timings are the presentation delays between staged steps.
type Timings struct {
	RollLead time.Duration // dice animation before the token starts moving
	Step     time.Duration // between token steps, and before the landing
	Goal     time.Duration // landing on the goal to the graduation notice
	Reveal   time.Duration // card flip to the next situation
}

// DefaultTimings mirrors the pacing of the browser client.
func DefaultTimings() Timings {
	return Timings{
		RollLead: time.Second,
		Step:     300 * time.Millisecond,
		Goal:     500 * time.Millisecond,
		Reveal:   5 * time.Second,
	}
}

// Timer asks the caller to deliver Event back to Apply after Delay.
type Timer struct {
	Delay time.Duration
	Event Event
}

// Transition records a screen change.
type Transition struct {
	From domain.Screen
	To   domain.Screen
}

// Outcome lists the side effects an accepted (or rejected) event requests.
type Outcome struct {
	Cues       []domain.Cue
	Timers     []Timer
	Transition *Transition
	Landed     *content.Cell
	Chosen     *domain.ChoiceRecord
	// Reset is set when the session was wiped and its snapshot must be erased.
	Reset bool
}

func (o *Outcome) cue(c domain.Cue) {
	o.Cues = append(o.Cues, c)
}

func (o *Outcome) schedule(d time.Duration, ev Event) {
	o.Timers = append(o.Timers, Timer{Delay: d, Event: ev})
}

// Engine applies events against a fixed content pack.
type Engine struct {
	content *content.Content
	timings Timings
}

// New returns an Engine. A nil pack selects the embedded default.
func New(c *content.Content, t Timings) *Engine {
	if c == nil {
		c = content.Default()
	}
	return &Engine{content: c, timings: t}
}

// Content returns the pack the engine plays on.
func (e *Engine) Content() *content.Content {
	return e.content
}

// Apply applies ev to s. On error the returned session is s itself; the
// outcome may still carry cues (a wrong quiz word plays the fail cue).
func (e *Engine) Apply(s domain.Session, ev Event, now time.Time) (domain.Session, Outcome, error) {
	next := s.Clone()
	var out Outcome

	var err error
	switch ev := ev.(type) {
	case SetName:
		err = e.setName(&next, ev)
	case SelectAvatar:
		err = e.selectAvatar(&next, ev)
	case Enroll:
		err = e.enroll(&next, &out)
	case DismissOverlay:
		next.Overlay = next.Overlay.Next()
	case RollDice:
		err = e.rollDice(&next, ev, &out)
	case AdvanceToken:
		err = e.advanceToken(&next, ev, &out, now)
	case GraduationNotice:
		err = e.graduate(&next, ev.Epoch, &out)
	case Graduate:
		err = e.graduate(&next, next.Epoch, &out)
	case ChooseOption:
		err = e.chooseOption(&next, ev, &out)
	case RevealDone:
		err = e.revealDone(&next, ev, &out)
	case ViewAccountBook:
		err = e.viewAccountBook(&next, &out)
	case WriteDiary:
		err = e.writeDiary(&next, ev)
	case ViewResult:
		err = e.viewResult(&next, &out)
	case BackToAccountBook:
		err = e.backToAccountBook(&next, &out)
	case StartCompound:
		err = e.startCompound(&next, &out)
	case SetYears:
		err = e.setYears(&next, ev, &out)
	case SetRate:
		err = e.setRate(&next, ev)
	case OpenQuiz:
		err = e.openQuiz(&next)
	case SubmitAnswer:
		err = e.submitAnswer(&next, ev, &out)
	case ClaimCertificate:
		err = e.claimCertificate(&next, &out)
	case Reset:
		next = domain.NewSession(s.ID, ev.Epoch)
		out.Reset = true
		out.Transition = &Transition{From: s.CurrentScreen, To: domain.ScreenOnboarding}
	default:
		err = fmt.Errorf("%w: %T", domain.ErrUnknownEvent, ev)
	}
	if err != nil {
		return s, Outcome{Cues: out.Cues}, err
	}

	next.UpdatedAt = now
	return next, out, nil
}

// Restore normalises a session rebuilt from a snapshot: the transient fields
// that are never persisted are derived again from the persisted ones, and
// quiz answers that do not match the content are dropped.
func (e *Engine) Restore(s domain.Session) domain.Session {
	s = s.Clone()
	s.Roll = domain.RollState{}
	s.FlippedOption = ""
	s.Overlay = domain.OverlayNone
	s.ChoiceStep = min(len(s.UserChoices), len(e.content.Situations))
	for blank, word := range s.QuizAnswers {
		if want, ok := e.content.Answer(blank); !ok || word != want {
			delete(s.QuizAnswers, blank)
		}
	}
	s.QuizCompleted = len(s.QuizAnswers) == domain.QuizBlankCount
	s.Compound = domain.CompoundParams{Years: domain.MinYears, Rate: domain.BaselineRate}
	if s.CurrentScreen == domain.ScreenCompound {
		s.Compound = enterCompound(s)
	}
	return s
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrRejected}, args...)...)
}

func requireScreen(s *domain.Session, want domain.Screen) error {
	if s.CurrentScreen != want {
		return rejectf("not allowed on screen %q", s.CurrentScreen)
	}
	return nil
}

func transition(s *domain.Session, to domain.Screen, out *Outcome) error {
	if !s.CurrentScreen.CanTransitionTo(to) {
		return rejectf("cannot move from %q to %q", s.CurrentScreen, to)
	}
	out.Transition = &Transition{From: s.CurrentScreen, To: to}
	s.CurrentScreen = to
	s.Overlay = domain.OverlayNone
	return nil
}
