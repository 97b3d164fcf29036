package store

import (
	"context"

	"github.com/example/inline-waitlist/internal/db"
)

// Postgres is the networked backend, for deployments where the worker and
// the intake server run as separate processes against one database.
type Postgres struct {
	db *db.DB
}

func NewPostgres(d *db.DB) *Postgres { return &Postgres{db: d} }

func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	d, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		d.Close()
		return nil, err
	}
	return &Postgres{db: d}, nil
}

func (p *Postgres) DB() *db.DB { return p.db }

func (p *Postgres) Close() { p.db.Close() }

func (p *Postgres) ListPending(ctx context.Context) ([]PendingTask, error) {
	rows, err := p.db.Query(ctx, `
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

func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	rows, err := p.db.Query(ctx, `
SELECT id, user_id, restaurant_id, target_date, party_size, status, created_at
FROM tasks
WHERE user_id = $1
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

func (p *Postgres) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := p.db.Query(ctx, `
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

func (p *Postgres) UpsertRestaurant(ctx context.Context, companyID, branchID, name, bookingURL string) (int64, error) {
	// The no-op DO UPDATE makes RETURNING yield the row on conflict too,
	// without mutating anything on the existing row.
	var id int64
	err := p.db.QueryRow(ctx, `
INSERT INTO restaurants(company_id, branch_id, name, booking_url)
VALUES ($1, $2, $3, $4)
ON CONFLICT (branch_id) DO UPDATE SET branch_id = EXCLUDED.branch_id
RETURNING id`, companyID, branchID, name, bookingURL).Scan(&id)
	return id, db.WrapNotFound(err)
}

func (p *Postgres) InsertTask(ctx context.Context, userID string, restaurantID int64, targetDate string, partySize int) (int64, error) {
	var id int64
	err := p.db.QueryRow(ctx, `
INSERT INTO tasks(user_id, restaurant_id, target_date, party_size, status)
VALUES ($1, $2, $3, $4, 'PENDING')
RETURNING id`, userID, restaurantID, targetDate, partySize).Scan(&id)
	return id, db.WrapNotFound(err)
}

func (p *Postgres) TryMarkFound(ctx context.Context, taskID int64) (bool, error) {
	n, err := p.db.ExecRows(ctx, `UPDATE tasks SET status='FOUND' WHERE id=$1 AND status='PENDING'`, taskID)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
