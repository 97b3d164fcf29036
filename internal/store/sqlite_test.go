package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "waitlist.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestUpsertRestaurantIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertRestaurant(ctx, "C1", "B1", "Hot Pot Place", "https://inline.app/booking/C1/B1")
	require.NoError(t, err)

	id2, err := s.UpsertRestaurant(ctx, "C1", "B1", "Different Name", "https://inline.app/booking/C1/B1")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	rs, err := s.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	// The original row is untouched by the second upsert.
	assert.Equal(t, "Hot Pot Place", rs[0].Name)
}

func TestInsertTaskAndListPendingRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rid, err := s.UpsertRestaurant(ctx, "C1", "B1", "Buffet", "https://inline.app/booking/C1/B1")
	require.NoError(t, err)

	tid, err := s.InsertTask(ctx, "U1", rid, "2025-01-01", 2)
	require.NoError(t, err)

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	pt := pending[0]
	assert.Equal(t, tid, pt.ID)
	assert.Equal(t, "U1", pt.UserID)
	assert.Equal(t, rid, pt.RestaurantID)
	assert.Equal(t, "2025-01-01", pt.TargetDate)
	assert.Equal(t, 2, pt.PartySize)
	assert.Equal(t, StatusPending, pt.Status)
	assert.False(t, pt.CreatedAt.IsZero())
	assert.Equal(t, "C1", pt.Restaurant.CompanyID)
	assert.Equal(t, "B1", pt.Restaurant.BranchID)
	assert.Equal(t, "Buffet", pt.Restaurant.Name)
	assert.Equal(t, "https://inline.app/booking/C1/B1", pt.Restaurant.BookingURL)
}

func TestListPendingEmpty(t *testing.T) {
	s := openTestStore(t)

	pending, err := s.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTryMarkFoundExcludesFromPending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rid, err := s.UpsertRestaurant(ctx, "C1", "B1", "Buffet", "")
	require.NoError(t, err)
	tid, err := s.InsertTask(ctx, "U1", rid, "2025-01-01", 2)
	require.NoError(t, err)

	won, err := s.TryMarkFound(ctx, tid)
	require.NoError(t, err)
	assert.True(t, won)

	// The transition is terminal: a second attempt loses.
	won, err = s.TryMarkFound(ctx, tid)
	require.NoError(t, err)
	assert.False(t, won)

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	tasks, err := s.ListByUser(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, StatusFound, tasks[0].Status)
}

func TestTryMarkFoundConcurrentSingleWinner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rid, err := s.UpsertRestaurant(ctx, "C1", "B1", "Buffet", "")
	require.NoError(t, err)
	tid, err := s.InsertTask(ctx, "U1", rid, "2025-01-01", 2)
	require.NoError(t, err)

	const racers = 8
	wins := make(chan bool, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := s.TryMarkFound(ctx, tid)
			assert.NoError(t, err)
			wins <- won
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestUpsertRestaurantConcurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const racers = 8
	ids := make(chan int64, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.UpsertRestaurant(ctx, "C1", "B1", "Buffet", "u")
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	var first int64
	for id := range ids {
		if first == 0 {
			first = id
		}
		assert.Equal(t, first, id)
	}

	rs, err := s.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

func TestListByUserScopedToUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rid, err := s.UpsertRestaurant(ctx, "C1", "B1", "Buffet", "")
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "U1", rid, "2025-01-01", 2)
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "U2", rid, "2025-01-02", 4)
	require.NoError(t, err)

	tasks, err := s.ListByUser(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2025-01-01", tasks[0].TargetDate)
}
