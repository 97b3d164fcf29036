package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the in-process file-backed backend, for single-binary
// deployments with no database server. WAL plus a busy timeout lets the
// worker loop and an on-demand pass share the file safely.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_fk=1", path)
	d, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: d}
	if err := s.ensureSchema(); err != nil {
		d.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS restaurants (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    company_id  TEXT NOT NULL,
    branch_id   TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    booking_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tasks (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       TEXT NOT NULL,
    restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
    target_date   TEXT NOT NULL,
    party_size    INTEGER NOT NULL CHECK (party_size > 0),
    status        TEXT NOT NULL DEFAULT 'PENDING',
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`)
	return err
}

func (s *SQLite) Close() { _ = s.db.Close() }

func (s *SQLite) ListPending(ctx context.Context) ([]PendingTask, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT t.id, t.user_id, t.restaurant_id, t.target_date, t.party_size, t.status, t.created_at,
       r.id, r.company_id, r.branch_id, r.name, r.booking_url
FROM tasks t
JOIN restaurants r ON t.restaurant_id = r.id
WHERE t.status = 'PENDING'
ORDER BY t.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PendingTask{}
	for rows.Next() {
		var pt PendingTask
		if err := rows.Scan(
			&pt.ID, &pt.UserID, &pt.RestaurantID, &pt.TargetDate, &pt.PartySize, &pt.Status, &pt.CreatedAt,
			&pt.Restaurant.ID, &pt.Restaurant.CompanyID, &pt.Restaurant.BranchID, &pt.Restaurant.Name, &pt.Restaurant.BookingURL,
		); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (s *SQLite) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, restaurant_id, target_date, party_size, status, created_at
FROM tasks
WHERE user_id = ?
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.RestaurantID, &t.TargetDate, &t.PartySize, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, company_id, branch_id, name, booking_url
FROM restaurants
ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Restaurant{}
	for rows.Next() {
		var r Restaurant
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.BranchID, &r.Name, &r.BookingURL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) UpsertRestaurant(ctx context.Context, companyID, branchID, name, bookingURL string) (int64, error) {
	// INSERT OR IGNORE rides on the branch_id uniqueness constraint; the
	// re-select picks up whichever insert won.
	if _, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO restaurants(company_id, branch_id, name, booking_url)
VALUES (?, ?, ?, ?)`, companyID, branchID, name, bookingURL); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM restaurants WHERE branch_id = ?`, branchID).Scan(&id)
	return id, err
}

func (s *SQLite) InsertTask(ctx context.Context, userID string, restaurantID int64, targetDate string, partySize int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO tasks(user_id, restaurant_id, target_date, party_size, status)
VALUES (?, ?, ?, ?, 'PENDING')`, userID, restaurantID, targetDate, partySize)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLite) TryMarkFound(ctx context.Context, taskID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status='FOUND' WHERE id=? AND status='PENDING'`, taskID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
