// Package expiry evicts idle in-memory state on a schedule.
package expiry

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Sweeper drops the entries it owns. Finished entries last touched before
// doneBefore are dropped, and so is anything else last touched before
// idleBefore. Entries with work in flight are kept. Sweep returns the
// number of entries dropped.
type Sweeper interface {
	Sweep(idleBefore, doneBefore time.Time) int
}

// Policy sets how long state may sit untouched.
type Policy struct {
	IdleTTL       time.Duration
	DoneRetention time.Duration
	Interval      time.Duration
}

type named struct {
	name string
	s    Sweeper
}

// Janitor sweeps registered stores every Policy.Interval.
type Janitor struct {
	clock    clockwork.Clock
	policy   Policy
	sweepers []named
	logger   zerolog.Logger
}

// NewJanitor creates a janitor. A nil clock means the real clock.
func NewJanitor(clock clockwork.Clock, policy Policy, logger zerolog.Logger) *Janitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Janitor{
		clock:  clock,
		policy: policy,
		logger: logger.With().Str("component", "janitor").Logger(),
	}
}

// Register adds a store. Call it before Run.
func (j *Janitor) Register(name string, s Sweeper) {
	j.sweepers = append(j.sweepers, named{name: name, s: s})
}

// SweepOnce sweeps every store against the current time.
func (j *Janitor) SweepOnce() int {
	now := j.clock.Now()
	idleBefore := now.Add(-j.policy.IdleTTL)
	doneBefore := now.Add(-j.policy.DoneRetention)

	total := 0
	for _, n := range j.sweepers {
		if dropped := n.s.Sweep(idleBefore, doneBefore); dropped > 0 {
			j.logger.Debug().Str("store", n.name).Int("dropped", dropped).Msg("expired entries evicted")
			total += dropped
		}
	}
	return total
}

// Run sweeps until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ticker := j.clock.NewTicker(j.policy.Interval)
	defer ticker.Stop()

	j.logger.Info().
		Dur("idle_ttl", j.policy.IdleTTL).
		Dur("done_retention", j.policy.DoneRetention).
		Dur("interval", j.policy.Interval).
		Msg("janitor started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			j.SweepOnce()
		}
	}
}
