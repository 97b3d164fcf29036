// Package scheduler drives the watch-and-notify loop: list PENDING tasks,
// probe each one, and on a hit perform notify-then-retire exactly once.
//
// More than one runner may execute passes against the same store at the
// same time (the long-running loop plus an on-demand cron pass). The only
// coordination point is the store's conditional PENDING→FOUND update; a
// runner that loses it skips notification silently.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/inline-waitlist/internal/store"
)

type Store interface {
	ListPending(ctx context.Context) ([]store.PendingTask, error)
	TryMarkFound(ctx context.Context, taskID int64) (bool, error)
}

type Prober interface {
	Probe(ctx context.Context, companyID, branchID, date string, partySize int) ([]string, error)
}

type Notifier interface {
	Push(ctx context.Context, userID, text string) error
}

type Scheduler struct {
	Store    Store
	Prober   Prober
	Notifier Notifier

	ProbeDelay   time.Duration // pause between successive probes within a pass
	PassInterval time.Duration // pause between passes in Run
}

// Run executes passes until ctx is cancelled, sleeping PassInterval
// between them. The first pass starts immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.RunOnce(ctx); err != nil {
			// Store trouble aborts only this pass; the next scheduled
			// pass retries from scratch.
			log.Printf("scheduler: pass aborted: %v", err)
		}
		if err := sleep(ctx, s.PassInterval); err != nil {
			return err
		}
	}
}

// RunOnce executes a single pass over all pending tasks. The returned
// error is a store failure listing the tasks; per-task failures are
// absorbed and logged.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	tasks, err := s.Store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}

	for i, t := range tasks {
		if i > 0 {
			// Rate limit outbound probes so the platform doesn't block us.
			if err := sleep(ctx, s.ProbeDelay); err != nil {
				return err
			}
		}
		s.checkTask(ctx, t)
	}
	return nil
}

func (s *Scheduler) checkTask(ctx context.Context, t store.PendingTask) {
	slots, err := s.Prober.Probe(ctx, t.Restaurant.CompanyID, t.Restaurant.BranchID, t.TargetDate, t.PartySize)
	if err != nil {
		// Upstream hiccup. Treat as no slot; the next pass retries.
		log.Printf("scheduler: probe task=%d branch=%s: %v", t.ID, t.Restaurant.BranchID, err)
		return
	}
	if len(slots) == 0 {
		return
	}

	won, err := s.Store.TryMarkFound(ctx, t.ID)
	if err != nil {
		log.Printf("scheduler: mark found task=%d: %v", t.ID, err)
		return
	}
	if !won {
		// Another runner claimed this task first. Expected under
		// concurrent passes, not an error.
		return
	}

	msg := buildMessage(t, slots)
	if err := s.Notifier.Push(ctx, t.UserID, msg); err != nil {
		// The task is already FOUND; this notification is lost for good.
		log.Printf("scheduler: ERROR push failed task=%d user=%s: %v", t.ID, t.UserID, err)
		return
	}
	log.Printf("scheduler: notified user=%s task=%d slots=%d", t.UserID, t.ID, len(slots))
}

func buildMessage(t store.PendingTask, slots []string) string {
	name := t.Restaurant.Name
	if name == "" {
		name = "Your restaurant"
	}
	return fmt.Sprintf("%s has open slots!\nDate: %s\nTimes: %s\nBook now: %s",
		name, t.TargetDate, strings.Join(slots, ", "), t.Restaurant.BookingURL)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
