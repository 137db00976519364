package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
	"github.com/richschool/compound-school/internal/core/ports"
)

// GameDeps groups the collaborators of GameService. Journal, Dedup and
// Observer are optional.
type GameDeps struct {
	Engine    *engine.Engine
	Repo      ports.SessionRepository
	Codec     ports.SnapshotCodec
	Sound     ports.SoundPlayer
	Exporter  ports.ImageExporter
	Dice      ports.Dice
	Scheduler ports.Scheduler
	Executor  ports.Executor
	Journal   ports.Journal
	Dedup     ports.CommandDeduper
	Observer  ports.GameObserver

	Clock func() time.Time
	NewID func() string
}

// liveSession is a session held in memory. It is only touched from inside
// the executor under its own id.
type liveSession struct {
	session   domain.Session
	lastSeen  time.Time
	timers    map[uint64]func()
	nextTimer uint64
}

// GameService owns the live session table. Every operation on a session
// runs through the executor keyed by the session id, so a session is never
// mutated concurrently and its timer continuations apply in order.
type GameService struct {
	engine   *engine.Engine
	repo     ports.SessionRepository
	codec    ports.SnapshotCodec
	sound    ports.SoundPlayer
	exporter ports.ImageExporter
	dice     ports.Dice
	sched    ports.Scheduler
	exec     ports.Executor
	journal  ports.Journal
	dedup    ports.CommandDeduper
	observer ports.GameObserver
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger

	mu   sync.Mutex
	live map[string]*liveSession
}

var _ ports.GameService = (*GameService)(nil)

// NewGameService returns a GameService wired to deps.
func NewGameService(deps GameDeps, log zerolog.Logger) *GameService {
	g := &GameService{
		engine:   deps.Engine,
		repo:     deps.Repo,
		codec:    deps.Codec,
		sound:    deps.Sound,
		exporter: deps.Exporter,
		dice:     deps.Dice,
		sched:    deps.Scheduler,
		exec:     deps.Executor,
		journal:  deps.Journal,
		dedup:    deps.Dedup,
		observer: deps.Observer,
		now:      deps.Clock,
		newID:    deps.NewID,
		log:      log,
		live:     make(map[string]*liveSession),
	}
	if g.engine == nil {
		g.engine = engine.New(nil, engine.DefaultTimings())
	}
	if g.journal == nil {
		g.journal = nopJournal{}
	}
	if g.dedup == nil {
		g.dedup = nopDedup{}
	}
	if g.observer == nil {
		g.observer = nopObserver{}
	}
	if g.now == nil {
		g.now = func() time.Time { return time.Now().UTC() }
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	return g
}

// Create starts a new session and persists its defaults.
func (g *GameService) Create(ctx context.Context) (engine.View, error) {
	id := g.newID()
	ls := &liveSession{
		session:  domain.NewSession(id, g.newID()),
		lastSeen: g.now(),
		timers:   make(map[uint64]func()),
	}
	ls.session.UpdatedAt = ls.lastSeen

	var view engine.View
	err := g.exec.Do(ctx, id, func() {
		g.store(id, ls)
		g.save(ctx, ls.session)
		view = g.view(ls)
	})
	if err != nil {
		return engine.View{}, err
	}

	g.log.Info().Str("session_id", id).Msg("session created")
	return view, nil
}

// View returns the renderer input and drains the session's pending cues.
func (g *GameService) View(ctx context.Context, id string) (engine.View, error) {
	var (
		view  engine.View
		opErr error
	)
	err := g.exec.Do(ctx, id, func() {
		ls, err := g.load(ctx, id)
		if err != nil {
			opErr = err
			return
		}
		ls.lastSeen = g.now()
		view = g.view(ls)
	})
	if err != nil {
		return engine.View{}, err
	}
	return view, opErr
}

// Dispatch applies a user event to the session.
func (g *GameService) Dispatch(ctx context.Context, id string, ev engine.Event, commandID string) (engine.View, error) {
	if ev == nil || engine.IsContinuation(ev) {
		return engine.View{}, fmt.Errorf("dispatch: %w", domain.ErrUnknownEvent)
	}

	if commandID != "" {
		dup, err := g.dedup.IsDuplicate(ctx, id, commandID)
		if err != nil {
			g.log.Warn().Err(err).Str("session_id", id).Msg("dedup check failed, applying anyway")
		} else {
			g.observer.DedupChecked(dup)
		}
		if dup {
			g.log.Debug().Str("session_id", id).Str("command_id", commandID).Msg("duplicate command skipped")
			return g.View(ctx, id)
		}
	}

	var (
		view  engine.View
		opErr error
	)
	err := g.exec.Do(ctx, id, func() {
		ls, err := g.load(ctx, id)
		if err != nil {
			opErr = err
			return
		}
		if err := g.apply(ctx, ls, ev); err != nil {
			opErr = err
			return
		}
		view = g.view(ls)
	})
	if err != nil {
		return engine.View{}, err
	}
	if opErr != nil {
		return engine.View{}, fmt.Errorf("dispatch %s: %w", ev.Name(), opErr)
	}

	if commandID != "" {
		if err := g.dedup.Mark(ctx, id, commandID); err != nil {
			g.log.Warn().Err(err).Str("session_id", id).Msg("failed to set dedup key")
		}
	}
	return view, nil
}

// Roll draws a die from the random source and applies it.
func (g *GameService) Roll(ctx context.Context, id string, commandID string) (engine.View, error) {
	return g.Dispatch(ctx, id, engine.RollDice{Value: g.dice.Roll()}, commandID)
}

// Reset wipes the session back to onboarding under a new epoch and erases
// its snapshot.
func (g *GameService) Reset(ctx context.Context, id string) (engine.View, error) {
	return g.Dispatch(ctx, id, engine.Reset{Epoch: g.newID()}, "")
}

// Certificate renders the certificate image of a graduated session.
func (g *GameService) Certificate(ctx context.Context, id string) (ports.Certificate, error) {
	var (
		in    ports.CertificateInput
		opErr error
	)
	err := g.exec.Do(ctx, id, func() {
		ls, err := g.load(ctx, id)
		if err != nil {
			opErr = err
			return
		}
		s := ls.session
		if s.CurrentScreen != domain.ScreenCertificate {
			opErr = fmt.Errorf("%w: certificate not earned yet", domain.ErrRejected)
			return
		}
		in = ports.CertificateInput{
			SessionID:    s.ID,
			UserName:     s.UserName,
			Avatar:       s.SelectedAvatar.Profile(),
			Persona:      engine.Identity(s.UserChoices),
			Money:        s.UserMoney,
			TotalIncome:  s.TotalIncome,
			TotalExpense: s.TotalExpense,
			IssuedAt:     g.now(),
		}
	})
	if err != nil {
		return ports.Certificate{}, err
	}
	if opErr != nil {
		return ports.Certificate{}, fmt.Errorf("certificate: %w", opErr)
	}

	data, err := g.exporter.ExportCertificate(ctx, in)
	g.observer.CertificateExported(err == nil)
	if err != nil {
		g.log.Warn().Err(err).Str("session_id", id).Msg("certificate export failed")
		return ports.Certificate{}, fmt.Errorf("certificate: %w: %v", domain.ErrExportFailed, err)
	}
	return ports.Certificate{
		FileName:    engine.CertificateFileName(in.UserName),
		ContentType: g.exporter.ContentType(),
		Data:        data,
	}, nil
}

// Classroom summarises the persisted sessions, most recent first.
func (g *GameService) Classroom(ctx context.Context, limit int) ([]ports.SessionSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	records, err := g.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("classroom: %w", err)
	}

	out := make([]ports.SessionSummary, 0, len(records))
	for _, r := range records {
		s, _, ok := g.codec.Decode(r.ID, r.Data)
		if !ok {
			g.log.Debug().Str("session_id", r.ID).Msg("skipping unreadable snapshot")
			continue
		}
		updated := s.UpdatedAt
		if updated.IsZero() {
			updated = r.UpdatedAt
		}
		out = append(out, ports.SessionSummary{
			ID:        r.ID,
			UserName:  s.UserName,
			Avatar:    s.SelectedAvatar,
			Screen:    s.CurrentScreen,
			Money:     s.UserMoney,
			Choices:   len(s.UserChoices),
			Dominant:  engine.DominantCategory(s.UserChoices),
			Completed: s.CurrentScreen == domain.ScreenCertificate,
			UpdatedAt: updated,
		})
	}
	return out, nil
}

// Journal returns the most recent journal entries of a session.
func (g *GameService) Journal(ctx context.Context, id string, limit int) ([]ports.JournalEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := g.journal.History(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return entries, nil
}

// EvictIdle drops live sessions idle for longer than idle and cancels
// their pending continuations.
func (g *GameService) EvictIdle(ctx context.Context, idle time.Duration) int {
	g.mu.Lock()
	ids := make([]string, 0, len(g.live))
	for id := range g.live {
		ids = append(ids, id)
	}
	g.mu.Unlock()

	cutoff := g.now().Add(-idle)
	evicted := 0
	for _, id := range ids {
		err := g.exec.Do(ctx, id, func() {
			ls := g.lookup(id)
			if ls == nil || ls.lastSeen.After(cutoff) {
				return
			}
			cancelTimers(ls)
			g.sound.Forget(id)
			g.remove(id)
			evicted++
		})
		if err != nil {
			g.log.Warn().Err(err).Msg("eviction interrupted")
			break
		}
	}

	if evicted > 0 {
		g.log.Info().Int("evicted", evicted).Msg("idle sessions evicted")
	}
	return evicted
}

// apply runs ev through the engine and carries out the outcome. Cues are
// played even when the event is rejected.
func (g *GameService) apply(ctx context.Context, ls *liveSession, ev engine.Event) error {
	id := ls.session.ID
	now := g.now()

	next, out, err := g.engine.Apply(ls.session, ev, now)
	g.play(id, out.Cues)
	if err != nil {
		g.observer.EventRejected(ev.Name(), rejectReason(err))
		return err
	}

	from := ls.session.CurrentScreen
	ls.session = next
	if !engine.IsContinuation(ev) {
		ls.lastSeen = now
	}
	g.observer.EventAccepted(ev.Name(), from)

	if out.Transition != nil {
		g.observer.Transition(out.Transition.From, out.Transition.To)
		g.log.Info().
			Str("session_id", id).
			Str("event", ev.Name()).
			Str("from", string(out.Transition.From)).
			Str("screen", string(out.Transition.To)).
			Msg("screen changed")
	}

	if out.Reset {
		cancelTimers(ls)
		g.sound.Forget(id)
		if err := g.repo.Delete(ctx, id); err != nil {
			g.log.Warn().Err(err).Str("session_id", id).Msg("failed to delete snapshot")
		}
	} else {
		g.save(ctx, next)
	}

	for _, t := range out.Timers {
		g.schedule(ls, t)
	}

	g.record(ctx, next, ev, out)
	return nil
}

func (g *GameService) schedule(ls *liveSession, t engine.Timer) {
	id := ls.session.ID
	ls.nextTimer++
	seq := ls.nextTimer
	ls.timers[seq] = g.sched.After(t.Delay, func() {
		g.fire(id, seq, t.Event)
	})
}

// fire delivers a continuation. Continuations outlive the request that
// scheduled them, so they run under a background context.
func (g *GameService) fire(id string, seq uint64, ev engine.Event) {
	ctx := context.Background()
	err := g.exec.Do(ctx, id, func() {
		ls := g.lookup(id)
		if ls == nil {
			g.log.Debug().Str("session_id", id).Str("event", ev.Name()).Msg("continuation for evicted session dropped")
			return
		}
		delete(ls.timers, seq)
		if err := g.apply(ctx, ls, ev); err != nil {
			if errors.Is(err, domain.ErrStale) {
				g.log.Debug().Str("session_id", id).Str("event", ev.Name()).Msg("stale continuation dropped")
				return
			}
			g.log.Warn().Err(err).Str("session_id", id).Str("event", ev.Name()).Msg("continuation rejected")
		}
	})
	if err != nil {
		g.log.Warn().Err(err).Str("session_id", id).Msg("continuation not delivered")
	}
}

// load returns the live session, restoring it from its snapshot when it is
// not in memory.
func (g *GameService) load(ctx context.Context, id string) (*liveSession, error) {
	if ls := g.lookup(id); ls != nil {
		return ls, nil
	}

	data, err := g.repo.Load(ctx, id)
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return nil, domain.ErrSessionNotFound
	case err != nil:
		// Never fall back to defaults here: the next save would overwrite
		// the stored snapshot.
		g.log.Warn().Err(err).Str("session_id", id).Msg("snapshot unreadable from store")
		return nil, fmt.Errorf("load session %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}

	s := domain.NewSession(id, "")
	decoded, skipped, ok := g.codec.Decode(id, data)
	switch {
	case !ok:
		g.log.Warn().Str("session_id", id).Msg("corrupt snapshot discarded")
		g.observer.SnapshotSkipped(nil, true)
	case len(skipped) > 0:
		g.log.Warn().Str("session_id", id).Strs("fields", skipped).Msg("snapshot partially restored")
		g.observer.SnapshotSkipped(skipped, false)
		s = decoded
	default:
		s = decoded
	}

	s.ID = id
	s = g.engine.Restore(s)
	s.Epoch = g.newID()

	ls := &liveSession{session: s, lastSeen: g.now(), timers: make(map[uint64]func())}
	g.store(id, ls)
	g.log.Debug().Str("session_id", id).Str("screen", string(s.CurrentScreen)).Msg("session restored")
	return ls, nil
}

func (g *GameService) save(ctx context.Context, s domain.Session) {
	data, err := g.codec.Encode(s)
	if err != nil {
		g.log.Warn().Err(err).Str("session_id", s.ID).Msg("failed to encode snapshot")
		return
	}
	if err := g.repo.Save(ctx, s.ID, data); err != nil {
		g.log.Warn().Err(err).Str("session_id", s.ID).Msg("failed to save snapshot")
	}
}

func (g *GameService) play(id string, cues []domain.Cue) {
	for _, c := range cues {
		g.observer.CuePlayed(c)
		if err := g.sound.Play(id, c); err != nil {
			g.log.Warn().Err(err).Str("session_id", id).Str("cue", string(c)).Msg("sound playback failed")
		}
	}
}

func (g *GameService) record(ctx context.Context, s domain.Session, ev engine.Event, out engine.Outcome) {
	if _, step := ev.(engine.AdvanceToken); step && out.Landed == nil {
		return
	}
	entry := ports.JournalEntry{
		SessionID: s.ID,
		Event:     ev.Name(),
		Screen:    string(s.CurrentScreen),
		Money:     s.UserMoney,
		At:        s.UpdatedAt,
	}
	switch {
	case out.Landed != nil:
		entry.Detail = fmt.Sprintf("%s %+d", out.Landed.Label, out.Landed.Amount)
	case out.Chosen != nil:
		entry.Detail = fmt.Sprintf("situation %d option %s (%s)", out.Chosen.SituationID, out.Chosen.ChoiceID, out.Chosen.Category)
	case out.Transition != nil:
		entry.Detail = fmt.Sprintf("%s -> %s", out.Transition.From, out.Transition.To)
	}
	if err := g.journal.Record(ctx, entry); err != nil {
		g.log.Warn().Err(err).Str("session_id", s.ID).Msg("failed to record journal entry")
	}
}

func (g *GameService) view(ls *liveSession) engine.View {
	v := g.engine.BuildView(ls.session)
	if cues := g.sound.Drain(ls.session.ID); len(cues) > 0 {
		v.Cues = cues
	}
	return v
}

func (g *GameService) lookup(id string) *liveSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.live[id]
}

func (g *GameService) store(id string, ls *liveSession) {
	g.mu.Lock()
	g.live[id] = ls
	n := len(g.live)
	g.mu.Unlock()
	g.observer.LiveSessions(n)
}

func (g *GameService) remove(id string) {
	g.mu.Lock()
	delete(g.live, id)
	n := len(g.live)
	g.mu.Unlock()
	g.observer.LiveSessions(n)
}

func cancelTimers(ls *liveSession) {
	for seq, cancel := range ls.timers {
		cancel()
		delete(ls.timers, seq)
	}
}

// rejectReason is a low-cardinality label for a rejected event.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrStale):
		return "stale"
	case errors.Is(err, domain.ErrWrongAnswer):
		return "wrong_answer"
	case errors.Is(err, domain.ErrBlankFilled):
		return "blank_filled"
	case errors.Is(err, domain.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, domain.ErrInvalidAvatar),
		errors.Is(err, domain.ErrInvalidDie),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrUnknownBlank),
		errors.Is(err, domain.ErrUnknownEvent):
		return "invalid_input"
	case errors.Is(err, domain.ErrRejected):
		return "guard"
	default:
		return "other"
	}
}
