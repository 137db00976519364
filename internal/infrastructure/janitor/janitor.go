package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Evictor drops live sessions that have been idle for longer than idle.
type Evictor interface {
	EvictIdle(ctx context.Context, idle time.Duration) int
}

// Janitor periodically evicts idle sessions from the live table. Evicted
// sessions remain in the repository and are restored on next access.
type Janitor struct {
	cron    *cron.Cron
	evictor Evictor
	idle    time.Duration
	ctx     context.Context
	log     zerolog.Logger
}

func New(ctx context.Context, evictor Evictor, idle time.Duration, log zerolog.Logger) *Janitor {
	return &Janitor{
		cron:    cron.New(cron.WithSeconds()),
		evictor: evictor,
		idle:    idle,
		ctx:     ctx,
		log:     log,
	}
}

// Register schedules the eviction sweep. schedule accepts six-field cron
// expressions and descriptors such as "@every 1m".
func (j *Janitor) Register(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return fmt.Errorf("register janitor %q: %w", schedule, err)
	}
	return nil
}

func (j *Janitor) Start() {
	j.cron.Start()
	j.log.Info().Dur("idle", j.idle).Msg("janitor started")
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info().Msg("janitor stopped")
}

// RunNow performs one sweep immediately.
func (j *Janitor) RunNow() int {
	if j.ctx.Err() != nil {
		return 0
	}
	n := j.evictor.EvictIdle(j.ctx, j.idle)
	j.log.Debug().Int("evicted", n).Msg("janitor sweep")
	return n
}

func (j *Janitor) sweep() {
	j.RunNow()
}
