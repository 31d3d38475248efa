package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
	"github.com/janhq/rooms-api/internal/infrastructure/observability"
)

// SweeperOptions configures a Sweeper.
type SweeperOptions struct {
	Prefix     string
	TemplateID string
	// IdleTimeout is how long an active room may go untouched.
	IdleTimeout time.Duration
	// Interval is the sweep period.
	Interval time.Duration
	// CallTimeout bounds each upstream disable call.
	CallTimeout time.Duration
	Now         func() time.Time
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Checked  int
	Disabled int
	Failed   int
}

// Sweeper keeps the room table in line with the platform:
// - Reconcile rebuilds the table from the enabled template rooms at startup
// - Sweep disables rooms idle longer than IdleTimeout, upstream first
type Sweeper struct {
	store     room.Store
	platform  room.Platform
	jobs      *observability.JobInstrumenter
	opts      SweeperOptions
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewSweeper creates a new room sweeper. jobs may be nil.
func NewSweeper(
	store room.Store,
	platform room.Platform,
	opts SweeperOptions,
	jobs *observability.JobInstrumenter,
	log zerolog.Logger,
) *Sweeper {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Minute
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Sweeper{
		store:    store,
		platform: platform,
		jobs:     jobs,
		opts:     opts,
		log:      log.With().Str("component", "room-sweeper").Logger(),
		done:     make(chan struct{}),
	}
}

// Start reconciles once, then begins the sweep loop in background.
// Safe to call multiple times - only the first call starts the sweeper.
func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		if err := s.Reconcile(ctx); err != nil {
			s.log.Warn().Err(err).Msg("reconcile failed, starting with an empty room table")
		}

		s.wg.Add(1)
		go s.run(ctx)
		s.log.Info().
			Dur("interval", s.opts.Interval).
			Dur("idle_timeout", s.opts.IdleTimeout).
			Msg("room sweeper started")
	})
}

// Stop gracefully shuts down the sweeper.
// Safe to call multiple times - only the first call stops the sweeper.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.log.Info().Msg("room sweeper stopped")
	})
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("context cancelled, shutting down sweeper")
			return
		case <-s.done:
			s.log.Debug().Msg("done signal received, shutting down sweeper")
			return
		case <-ticker.C:
			s.Sweep(ctx, s.opts.Now())
		}
	}
}

// Reconcile replaces the room table with the enabled rooms of the
// configured template whose names follow the naming convention.
// Every reconciled room starts a fresh idle clock; CreatedAt keeps the
// platform's value.
func (s *Sweeper) Reconcile(ctx context.Context) error {
	return s.jobs.Run(ctx, "reconcile", func(ctx context.Context) error {
		rooms, err := s.platform.ListEnabledRooms(ctx, s.opts.TemplateID)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}

		now := s.opts.Now()
		sessions := make([]*room.Session, 0, len(rooms))
		skipped := 0
		for _, r := range rooms {
			ownerID, ok := room.ParseOwnerID(s.opts.Prefix, r.Name)
			if !ok {
				skipped++
				continue
			}
			createdAt := r.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			sessions = append(sessions, &room.Session{
				RoomID:       r.ID,
				RoomName:     r.Name,
				OwnerID:      ownerID,
				CreatedAt:    createdAt,
				LastActivity: now,
			})
		}

		if err := s.store.Replace(ctx, sessions); err != nil {
			return fmt.Errorf("replace rooms: %w", err)
		}

		s.log.Info().
			Int("reconciled", len(sessions)).
			Int("skipped", skipped).
			Msg("room table reconciled")
		return nil
	})
}

// Sweep disables every active room idle since before now-IdleTimeout.
// A room stays active when its upstream disable fails, so the next
// sweep retries it.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) SweepResult {
	var result SweepResult
	started := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}()

	_ = s.jobs.Run(ctx, "sweep", func(ctx context.Context) error {
		cutoff := now.Add(-s.opts.IdleTimeout)
		idle, err := s.store.Idle(ctx, cutoff)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to list idle rooms")
			return err
		}

		var errs []error
		for _, sess := range idle {
			result.Checked++
			if err := s.disableIdle(ctx, sess.RoomID, cutoff); err != nil {
				if errors.Is(err, errNoLongerIdle) {
					continue
				}
				result.Failed++
				errs = append(errs, err)
				continue
			}
			result.Disabled++
		}

		if result.Checked > 0 {
			s.log.Info().
				Int("checked", result.Checked).
				Int("disabled", result.Disabled).
				Int("failed", result.Failed).
				Msg("sweep cycle")
		}
		return errors.Join(errs...)
	})

	return result
}

var errNoLongerIdle = errors.New("room saw activity during sweep")

func (s *Sweeper) disableIdle(ctx context.Context, roomID string, cutoff time.Time) error {
	// A join may have landed between listing and now.
	current, err := s.store.Get(ctx, roomID)
	if err != nil || current.Disabled || !current.LastActivity.Before(cutoff) {
		return errNoLongerIdle
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	if err := s.platform.SetRoomEnabled(callCtx, roomID, false); err != nil {
		metrics.SweepFailures.Inc()
		s.log.Warn().
			Err(err).
			Str("room_id", roomID).
			Msg("idle room disable failed, will retry next sweep")
		return fmt.Errorf("disable %s: %w", roomID, err)
	}

	// A join may also have landed while the upstream call was in flight.
	// Its code is only usable if the room is enabled again.
	if after, err := s.store.Get(ctx, roomID); err == nil && !after.Disabled && !after.LastActivity.Before(cutoff) {
		reenableCtx, cancelReenable := context.WithTimeout(ctx, s.opts.CallTimeout)
		defer cancelReenable()
		err := s.platform.SetRoomEnabled(reenableCtx, roomID, true)
		if err == nil {
			s.log.Info().Str("room_id", roomID).Msg("room joined during idle disable, re-enabled")
			return errNoLongerIdle
		}
		s.log.Warn().Err(err).Str("room_id", roomID).Msg("failed to re-enable room joined during idle disable")
	}

	if err := s.store.MarkDisabled(ctx, roomID); err != nil {
		return fmt.Errorf("mark %s disabled: %w", roomID, err)
	}
	metrics.RecordRoomDisabled("idle")

	s.log.Info().
		Str("action", "disabled").
		Str("room_id", roomID).
		Str("reason", "idle").
		Dur("idle_for", s.opts.Now().Sub(current.LastActivity)).
		Msg("room cleanup")
	return nil
}
