// Package sweep runs a periodic, read-only pass over the card store that
// reports how many cards are due and which cards are stranded by a malformed
// next review timestamp.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/store"
)

// ErrAlreadyStarted is returned by Start when the sweeper is running.
var ErrAlreadyStarted = errors.New("sweeper already started")

// Report summarizes one sweep.
type Report struct {
	Total    int
	Due      int
	Stranded []uuid.UUID
	At       time.Time
}

// Sweeper schedules Run on a fixed interval.
type Sweeper struct {
	cards    store.CardStore
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	done      chan struct{} // closed by Stop

	lastMu sync.Mutex
	last   *Report
}

// Option customizes a Sweeper.
type Option func(*Sweeper)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// New creates a Sweeper over cards. If logger is nil, the default logger is used.
func New(cards store.CardStore, interval time.Duration, logger *slog.Logger, opts ...Option) *Sweeper {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{
		cards:    cards,
		interval: interval,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "due_sweep")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs a single sweep.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	cards, err := s.cards.List(ctx, store.CardFilter{})
	if err != nil {
		s.logger.ErrorContext(ctx, "due sweep failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	now := s.now()
	report := &Report{Total: len(cards), At: now}
	for _, card := range cards {
		due, err := srs.CheckDue(card, now)
		if err != nil {
			report.Stranded = append(report.Stranded, card.ID)
			s.logger.WarnContext(ctx, "card stranded: malformed next_review",
				slog.String("card_id", card.ID.String()),
				slog.String("next_review", card.NextReview))
			continue
		}
		if due {
			report.Due++
		}
	}

	s.logger.InfoContext(ctx, "due sweep completed",
		slog.Int("total", report.Total),
		slog.Int("due", report.Due),
		slog.Int("stranded", len(report.Stranded)))

	s.lastMu.Lock()
	s.last = report
	s.lastMu.Unlock()
	return report, nil
}

// Last returns the most recent report, or nil before the first sweep.
func (s *Sweeper) Last() *Report {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.last
}

// Start schedules Run every interval, starting immediately, until ctx is
// cancelled or Stop is called. Overlapping runs are skipped.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return ErrAlreadyStarted
	}
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()
	if _, err := scheduler.Every(s.interval).Do(func() {
		_, _ = s.Run(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule due sweep: %w", err)
	}
	scheduler.StartAsync()
	s.scheduler = scheduler
	done := make(chan struct{})
	s.done = done

	s.logger.Info("due sweep scheduled", slog.Duration("interval", s.interval))

	// The watcher exits when ctx is done or Stop is called.
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()
	return nil
}

// Stop terminates scheduled sweeps. It is safe to call more than once.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()

	if scheduler == nil {
		return
	}
	// Stop waits for a running sweep; the lock is released so it can finish.
	scheduler.Stop()
	s.logger.Info("due sweep stopped")
}
