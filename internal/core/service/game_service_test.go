package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
	"github.com/richschool/compound-school/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubRepo struct {
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
	deleted []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{data: make(map[string][]byte)}
}

func (r *stubRepo) Load(_ context.Context, id string) ([]byte, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	b, ok := r.data[id]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return b, nil
}

func (r *stubRepo) Save(_ context.Context, id string, data []byte) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.data[id] = data
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	delete(r.data, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubRepo) List(_ context.Context, limit int) ([]ports.SnapshotRecord, error) {
	ids := make([]string, 0, len(r.data))
	for id := range r.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]ports.SnapshotRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, ports.SnapshotRecord{ID: id, Data: r.data[id]})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubCodec struct{}

func (stubCodec) Encode(s domain.Session) ([]byte, error) { return json.Marshal(s) }

func (stubCodec) Decode(id string, data []byte) (domain.Session, []string, bool) {
	s := domain.NewSession(id, "")
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.NewSession(id, ""), nil, false
	}
	return s, nil, true
}

type stubSound struct {
	queued map[string][]domain.Cue
}

func newStubSound() *stubSound { return &stubSound{queued: make(map[string][]domain.Cue)} }

func (s *stubSound) Play(id string, c domain.Cue) error {
	s.queued[id] = append(s.queued[id], c)
	return nil
}

func (s *stubSound) Drain(id string) []domain.Cue {
	c := s.queued[id]
	delete(s.queued, id)
	return c
}

func (s *stubSound) Forget(id string) { delete(s.queued, id) }

type stubExporter struct {
	err error
	got ports.CertificateInput
}

func (e *stubExporter) ExportCertificate(_ context.Context, in ports.CertificateInput) ([]byte, error) {
	e.got = in
	if e.err != nil {
		return nil, e.err
	}
	return []byte("png"), nil
}

func (e *stubExporter) ContentType() string { return "image/png" }

type scriptedDice struct {
	values []int
}

func (d *scriptedDice) Roll() int {
	v := d.values[0]
	d.values = d.values[1:]
	return v
}

type pendingTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// fakeScheduler holds timers until the test runs them.
type fakeScheduler struct {
	pending []*pendingTimer
}

func (s *fakeScheduler) After(d time.Duration, fn func()) func() {
	t := &pendingTimer{delay: d, fn: fn}
	s.pending = append(s.pending, t)
	return func() { t.cancelled = true }
}

// RunAll fires timers in scheduling order, including the ones scheduled
// while firing, and returns how many actually ran.
func (s *fakeScheduler) RunAll() int {
	ran := 0
	for len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		if t.cancelled {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

type inlineExecutor struct {
	mu sync.Mutex
}

func (e *inlineExecutor) Do(ctx context.Context, _ string, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
	return nil
}

type stubJournal struct {
	entries []ports.JournalEntry
}

func (j *stubJournal) Record(_ context.Context, e ports.JournalEntry) error {
	j.entries = append(j.entries, e)
	return nil
}

func (j *stubJournal) History(_ context.Context, id string, limit int) ([]ports.JournalEntry, error) {
	var out []ports.JournalEntry
	for _, e := range j.entries {
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubDedup struct {
	dupResult bool
	marked    []string
}

func (d *stubDedup) IsDuplicate(context.Context, string, string) (bool, error) {
	return d.dupResult, nil
}

func (d *stubDedup) Mark(_ context.Context, id, cmd string) error {
	d.marked = append(d.marked, id+":"+cmd)
	return nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type harness struct {
	svc      *GameService
	repo     *stubRepo
	sound    *stubSound
	exporter *stubExporter
	dice     *scriptedDice
	sched    *fakeScheduler
	journal  *stubJournal
	dedup    *stubDedup
	now      time.Time
	ids      int
}

func newHarness(rolls ...int) *harness {
	h := &harness{
		repo:     newStubRepo(),
		sound:    newStubSound(),
		exporter: &stubExporter{},
		dice:     &scriptedDice{values: rolls},
		sched:    &fakeScheduler{},
		journal:  &stubJournal{},
		dedup:    &stubDedup{},
		now:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	h.svc = NewGameService(GameDeps{
		Repo:      h.repo,
		Codec:     stubCodec{},
		Sound:     h.sound,
		Exporter:  h.exporter,
		Dice:      h.dice,
		Scheduler: h.sched,
		Executor:  &inlineExecutor{},
		Journal:   h.journal,
		Dedup:     h.dedup,
		Clock:     func() time.Time { return h.now },
		NewID: func() string {
			h.ids++
			return fmt.Sprintf("id-%d", h.ids)
		},
	}, zerolog.Nop())
	return h
}

func (h *harness) enroll(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	v, err := h.svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := v.Session.ID
	for _, ev := range []engine.Event{
		engine.SetName{Text: "지민"},
		engine.SelectAvatar{Avatar: domain.AvatarEongi},
		engine.Enroll{},
	} {
		if _, err := h.svc.Dispatch(ctx, id, ev, ""); err != nil {
			t.Fatalf("%s: %v", ev.Name(), err)
		}
	}
	return id
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestGameService_Create(t *testing.T) {
	h := newHarness()
	v, err := h.svc.Create(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if v.Session.CurrentScreen != domain.ScreenOnboarding {
		t.Errorf("expected onboarding, got %q", v.Session.CurrentScreen)
	}
	if _, ok := h.repo.data[v.Session.ID]; !ok {
		t.Errorf("expected defaults to be persisted")
	}
}

func TestGameService_RollScenario(t *testing.T) {
	h := newHarness(4, 6)
	ctx := context.Background()
	id := h.enroll(t)

	v, err := h.svc.Roll(ctx, id, "")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if !v.Session.Roll.Rolling || v.Controls.CanRoll {
		t.Errorf("expected a roll in progress, got %+v", v.Session.Roll)
	}
	h.sched.RunAll()

	if _, err := h.svc.Roll(ctx, id, ""); err != nil {
		t.Fatalf("second roll: %v", err)
	}
	h.sched.RunAll()

	v, err = h.svc.View(ctx, id)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	s := v.Session
	if s.BoardPosition != 10 || s.UserMoney != 1600 || s.TotalIncome != 1600 {
		t.Errorf("unexpected board state: position %d money %d income %d", s.BoardPosition, s.UserMoney, s.TotalIncome)
	}
	if len(v.Cues) != 1 || v.Cues[0] != domain.CueCoin {
		t.Errorf("expected the second landing's coin cue, got %v", v.Cues)
	}

	var snap domain.Session
	if err := json.Unmarshal(h.repo.data[id], &snap); err != nil {
		t.Fatalf("snapshot unreadable: %v", err)
	}
	if snap.UserMoney != 1600 {
		t.Errorf("expected persisted money 1600, got %d", snap.UserMoney)
	}

	landings := 0
	for _, e := range h.journal.entries {
		if e.Event == "advance_token" {
			landings++
		}
	}
	if landings != 2 {
		t.Errorf("expected 2 journaled landings, got %d", landings)
	}
}

func TestGameService_ResetCancelsContinuations(t *testing.T) {
	h := newHarness(5)
	ctx := context.Background()
	id := h.enroll(t)

	if _, err := h.svc.Roll(ctx, id, ""); err != nil {
		t.Fatalf("roll: %v", err)
	}
	v, err := h.svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ran := h.sched.RunAll(); ran != 0 {
		t.Errorf("expected pending continuations to be cancelled, %d ran", ran)
	}

	if v.Session.CurrentScreen != domain.ScreenOnboarding || v.Session.UserName != "" {
		t.Errorf("session not reset: %+v", v.Session)
	}
	if _, ok := h.repo.data[id]; ok {
		t.Errorf("expected snapshot to be erased")
	}
	if len(h.repo.deleted) != 1 {
		t.Errorf("expected one delete, got %v", h.repo.deleted)
	}
}

func TestGameService_RestoresFromSnapshot(t *testing.T) {
	h := newHarness()
	s := domain.NewSession("saved", "old-epoch")
	s.UserName = "지민"
	s.CurrentScreen = domain.ScreenChoice
	s.UserMoney = 12000
	s.UserChoices = []domain.ChoiceRecord{
		{SituationID: 1, ChoiceID: "b", Cost: -1500, Reward: 4500, Category: domain.CategoryFuture},
		{SituationID: 2, ChoiceID: "a", Cost: -2000, Category: domain.CategoryPleasure},
	}
	s.FlippedOption = "a"
	h.repo.data["saved"], _ = json.Marshal(s)

	v, err := h.svc.View(context.Background(), "saved")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	got := v.Session
	if got.ChoiceStep != 2 || got.FlippedOption != "" {
		t.Errorf("expected step 2 with no card flipped, got %d %q", got.ChoiceStep, got.FlippedOption)
	}
	if got.Epoch == "old-epoch" || got.Epoch == "" {
		t.Errorf("expected a fresh epoch, got %q", got.Epoch)
	}
	if v.Situation == nil || v.Situation.ID != 3 {
		t.Errorf("expected situation 3, got %+v", v.Situation)
	}
}

func TestGameService_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	h := newHarness()
	h.repo.data["broken"] = []byte("{not json")

	v, err := h.svc.View(context.Background(), "broken")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Session.CurrentScreen != domain.ScreenOnboarding || v.Session.ID != "broken" {
		t.Errorf("expected defaults, got %+v", v.Session)
	}
}

func TestGameService_UnknownSession(t *testing.T) {
	h := newHarness()
	_, err := h.svc.View(context.Background(), "missing")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_StoreFailureKeepsSnapshot(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	s := domain.NewSession("saved", "")
	s.UserName = "지민"
	s.SelectedAvatar = domain.AvatarEongi
	s.CurrentScreen = domain.ScreenAccountBook
	s.UserMoney = 15000
	stored, _ := json.Marshal(s)
	h.repo.data["saved"] = stored
	h.repo.loadErr = errors.New("redis: i/o timeout")

	_, err := h.svc.Dispatch(ctx, "saved", engine.DismissOverlay{}, "")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if string(h.repo.data["saved"]) != string(stored) {
		t.Fatalf("stored snapshot was overwritten: %s", h.repo.data["saved"])
	}
	if h.svc.lookup("saved") != nil {
		t.Fatalf("session must not be cached after a failed load")
	}

	h.repo.loadErr = nil
	v, err := h.svc.View(ctx, "saved")
	if err != nil {
		t.Fatalf("view after recovery: %v", err)
	}
	if v.Session.CurrentScreen != domain.ScreenAccountBook || v.Session.UserMoney != 15000 {
		t.Errorf("expected the stored session, got %s with %d", v.Session.CurrentScreen, v.Session.UserMoney)
	}
}

func TestGameService_SaveFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	id := h.enroll(t)
	h.repo.saveErr = errors.New("redis down")

	v, err := h.svc.Dispatch(context.Background(), id, engine.DismissOverlay{}, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Session.Overlay != domain.OverlayNone {
		t.Errorf("expected overlay dismissed, got %q", v.Session.Overlay)
	}
}

func TestGameService_RejectionKeepsState(t *testing.T) {
	h := newHarness()
	id := h.enroll(t)
	saves := h.repo.saves

	_, err := h.svc.Dispatch(context.Background(), id, engine.StartCompound{}, "")
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if h.repo.saves != saves {
		t.Errorf("rejected event must not be persisted")
	}
}

func TestGameService_ContinuationsAreInternal(t *testing.T) {
	h := newHarness()
	id := h.enroll(t)

	_, err := h.svc.Dispatch(context.Background(), id, engine.AdvanceToken{}, "")
	if !errors.Is(err, domain.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestGameService_DuplicateCommandSkipped(t *testing.T) {
	h := newHarness(3)
	id := h.enroll(t)
	h.dedup.dupResult = true

	v, err := h.svc.Roll(context.Background(), id, "cmd-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Session.Roll.Rolling || len(h.sched.pending) != 0 {
		t.Errorf("duplicate command must not be applied")
	}
}

func TestGameService_MarksCommand(t *testing.T) {
	h := newHarness(3)
	id := h.enroll(t)

	if _, err := h.svc.Roll(context.Background(), id, "cmd-1"); err != nil {
		t.Fatalf("roll: %v", err)
	}
	if len(h.dedup.marked) != 1 || h.dedup.marked[0] != id+":cmd-1" {
		t.Errorf("expected command marked, got %v", h.dedup.marked)
	}
}

func TestGameService_EvictIdle(t *testing.T) {
	h := newHarness(2)
	ctx := context.Background()
	id := h.enroll(t)
	if _, err := h.svc.Roll(ctx, id, ""); err != nil {
		t.Fatalf("roll: %v", err)
	}

	if n := h.svc.EvictIdle(ctx, time.Hour); n != 0 {
		t.Fatalf("expected nothing evicted yet, got %d", n)
	}

	h.now = h.now.Add(2 * time.Hour)
	if n := h.svc.EvictIdle(ctx, time.Hour); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if ran := h.sched.RunAll(); ran != 0 {
		t.Errorf("expected continuations of evicted session to be cancelled, %d ran", ran)
	}

	v, err := h.svc.View(ctx, id)
	if err != nil {
		t.Fatalf("view after eviction: %v", err)
	}
	if v.Session.Roll.Rolling || v.Session.UserName != "지민" {
		t.Errorf("expected restored session without a pending roll, got %+v", v.Session)
	}
}

func TestGameService_CertificateRequiresGraduation(t *testing.T) {
	h := newHarness()
	id := h.enroll(t)

	_, err := h.svc.Certificate(context.Background(), id)
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestGameService_Certificate(t *testing.T) {
	h := newHarness()
	s := domain.NewSession("grad", "")
	s.UserName = "지민"
	s.SelectedAvatar = domain.AvatarRami
	s.CurrentScreen = domain.ScreenCertificate
	s.UserMoney = 30000
	h.repo.data["grad"], _ = json.Marshal(s)

	cert, err := h.svc.Certificate(context.Background(), "grad")
	if err != nil {
		t.Fatalf("certificate: %v", err)
	}
	if cert.FileName != "부자학교_수료증_지민.png" || cert.ContentType != "image/png" {
		t.Errorf("unexpected certificate %+v", cert)
	}
	if h.exporter.got.Money != 30000 || h.exporter.got.Avatar.ID != domain.AvatarRami {
		t.Errorf("unexpected exporter input %+v", h.exporter.got)
	}

	h.exporter.err = errors.New("disk full")
	if _, err := h.svc.Certificate(context.Background(), "grad"); !errors.Is(err, domain.ErrExportFailed) {
		t.Errorf("expected ErrExportFailed, got %v", err)
	}
}

func TestGameService_WrongAnswerCue(t *testing.T) {
	h := newHarness()
	s := domain.NewSession("quiz", "")
	s.CurrentScreen = domain.ScreenResult
	s.UserMoney = 20000
	h.repo.data["quiz"], _ = json.Marshal(s)
	ctx := context.Background()

	for _, ev := range []engine.Event{engine.StartCompound{}, engine.SetYears{Years: 30}, engine.OpenQuiz{}} {
		if _, err := h.svc.Dispatch(ctx, "quiz", ev, ""); err != nil {
			t.Fatalf("%s: %v", ev.Name(), err)
		}
	}

	_, err := h.svc.Dispatch(ctx, "quiz", engine.SubmitAnswer{Blank: domain.BlankTime, Word: "수익률"}, "")
	if !errors.Is(err, domain.ErrWrongAnswer) {
		t.Fatalf("expected ErrWrongAnswer, got %v", err)
	}
	v, err := h.svc.View(ctx, "quiz")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(v.Cues) != 1 || v.Cues[0] != domain.CueFail {
		t.Errorf("expected the fail cue, got %v", v.Cues)
	}
	if len(v.Session.QuizAnswers) != 0 {
		t.Errorf("wrong answer must not fill a blank")
	}
}

func TestGameService_Classroom(t *testing.T) {
	h := newHarness()
	id := h.enroll(t)
	h.repo.data["zz-broken"] = []byte("garbage")

	rows, err := h.svc.Classroom(context.Background(), 10)
	if err != nil {
		t.Fatalf("classroom: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one readable row, got %d", len(rows))
	}
	if rows[0].ID != id || rows[0].UserName != "지민" || rows[0].Screen != domain.ScreenBoardGame {
		t.Errorf("unexpected summary %+v", rows[0])
	}
}
