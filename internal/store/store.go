// Package store owns the persisted watch state: restaurants and the tasks
// that watch them. The status column doubles as the concurrency-control
// field; TryMarkFound is the single synchronization primitive the rest of
// the system relies on.
package store

import (
	"context"
	"time"
)

const (
	StatusPending = "PENDING"
	StatusFound   = "FOUND"
)

// Restaurant is a venue on the upstream booking platform. branch_id is the
// natural external key; rows are never mutated or deleted after creation.
type Restaurant struct {
	ID         int64
	CompanyID  string
	BranchID   string
	Name       string
	BookingURL string
}

// Task is one watch request. target_date is kept as an opaque YYYY-MM-DD
// string; the core never does date arithmetic on it.
type Task struct {
	ID           int64
	UserID       string
	RestaurantID int64
	TargetDate   string
	PartySize    int
	Status       string
	CreatedAt    time.Time
}

// PendingTask is a task joined with its restaurant, as the poller consumes it.
type PendingTask struct {
	Task
	Restaurant Restaurant
}

// Store is implemented by the Postgres and SQLite backends. Callers pick a
// backend explicitly; everything above this package is written against the
// interface only.
type Store interface {
	// ListPending returns every PENDING task joined with its restaurant.
	// Zero rows is an empty slice, not an error.
	ListPending(ctx context.Context) ([]PendingTask, error)

	// ListByUser returns all tasks (any status) created by one user.
	ListByUser(ctx context.Context, userID string) ([]Task, error)

	ListRestaurants(ctx context.Context) ([]Restaurant, error)

	// UpsertRestaurant returns the existing id when branchID is already
	// present, otherwise inserts and returns the new id. Safe against
	// duplicate-insert races; duplicates are never observable.
	UpsertRestaurant(ctx context.Context, companyID, branchID, name, bookingURL string) (int64, error)

	// InsertTask creates a watch request, always PENDING.
	InsertTask(ctx context.Context, userID string, restaurantID int64, targetDate string, partySize int) (int64, error)

	// TryMarkFound atomically sets status=FOUND iff it is still PENDING,
	// reporting whether this call performed the transition. A caller that
	// gets false lost the race and must not notify.
	TryMarkFound(ctx context.Context, taskID int64) (bool, error)

	Close()
}
