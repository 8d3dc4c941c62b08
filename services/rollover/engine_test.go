package rollover

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	timeslotRepo "keyscal/database/repository/timeslot"
	"keyscal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var errBoom = errors.New("boom")

func newStore(t *testing.T) *timeslotRepo.GormTimeSlotRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := timeslotRepo.NewGormTimeSlotRepository(db, time.Second)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func seed(t *testing.T, store timeslotRepo.TimeSlotRepository, slots ...models.TimeSlot) []models.TimeSlot {
	t.Helper()
	stored, err := store.InsertMany(context.Background(), slots)
	require.NoError(t, err)
	return stored
}

func mark(user, date, start string) models.TimeSlot {
	h := start[:2]
	end := map[string]string{"09": "10:00", "10": "11:00", "12": "13:00", "13": "14:00", "20": "21:00"}[h]
	return models.TimeSlot{UserID: user, Date: date, StartTime: start, EndTime: end}
}

type triple struct{ user, date, start string }

func contents(t *testing.T, store timeslotRepo.TimeSlotRepository) []triple {
	t.Helper()
	all, err := store.Find(context.Background(), timeslotRepo.Filter{})
	require.NoError(t, err)
	out := make([]triple, 0, len(all))
	for _, s := range all {
		out = append(out, triple{s.UserID, s.Date, s.StartTime})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].date != out[j].date {
			return out[i].date < out[j].date
		}
		if out[i].start != out[j].start {
			return out[i].start < out[j].start
		}
		return out[i].user < out[j].user
	})
	return out
}

// faultyStore counts mutations and injects failures.
type faultyStore struct {
	timeslotRepo.TimeSlotRepository

	failRead       bool
	failInsertDate string // fails InsertMany when the batch targets this date
	failDeleteOn   int    // 1-based DeleteByID call that fails, 0 = never

	inserts int
	deletes int
}

func (f *faultyStore) Find(ctx context.Context, filter timeslotRepo.Filter) ([]models.TimeSlot, error) {
	if f.failRead {
		return nil, errBoom
	}
	return f.TimeSlotRepository.Find(ctx, filter)
}

func (f *faultyStore) InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	f.inserts++
	if len(slots) > 0 && slots[0].Date == f.failInsertDate {
		return nil, errBoom
	}
	return f.TimeSlotRepository.InsertMany(ctx, slots)
}

func (f *faultyStore) DeleteByID(ctx context.Context, id string) error {
	f.deletes++
	if f.deletes == f.failDeleteOn {
		return errBoom
	}
	return f.TimeSlotRepository.DeleteByID(ctx, id)
}

// faultyTxStore adds transactions on top of faultyStore, routing the
// transaction-scoped repository through the same fault injection.
type faultyTxStore struct {
	*faultyStore
	tx timeslotRepo.Transactor
}

func (f *faultyTxStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo timeslotRepo.TimeSlotRepository) error) error {
	outer := f.faultyStore.TimeSlotRepository
	defer func() { f.faultyStore.TimeSlotRepository = outer }()
	return f.tx.WithTransaction(ctx, func(ctx context.Context, repo timeslotRepo.TimeSlotRepository) error {
		f.faultyStore.TimeSlotRepository = repo
		return fn(ctx, f.faultyStore)
	})
}

func TestEngine_RollsPastSlotsForwardAWeek(t *testing.T) {
	store := newStore(t)
	seed(t, store,
		mark("alice", "2024-01-01", "09:00"),
		mark("bob", "2024-01-01", "10:00"),
	)

	engine := NewEngine(store, Clock{}, nil)
	require.NoError(t, engine.Run(context.Background(), "2024-01-05"))

	assert.Equal(t, []triple{
		{"alice", "2024-01-08", "09:00"},
		{"bob", "2024-01-08", "10:00"},
	}, contents(t, store))

	old, err := store.Find(context.Background(), timeslotRepo.Filter{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestEngine_PreservesHoursAndLeavesCurrentSlotsAlone(t *testing.T) {
	store := newStore(t)
	seed(t, store,
		mark("Reen", "2024-12-28", "20:00"),
		mark("Kris", "2024-12-30", "12:00"),
		mark("Zela", "2025-01-02", "13:00"), // today
		mark("Zuju", "2025-01-03", "12:00"),
	)

	engine := NewEngine(store, Clock{}, nil)
	require.NoError(t, engine.Run(context.Background(), "2025-01-02"))

	assert.Equal(t, []triple{
		{"Zela", "2025-01-02", "13:00"},
		{"Zuju", "2025-01-03", "12:00"},
		{"Reen", "2025-01-04", "20:00"},
		{"Kris", "2025-01-06", "12:00"},
	}, contents(t, store))

	moved, err := store.Find(context.Background(), timeslotRepo.Filter{Date: "2025-01-04"})
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, "21:00", moved[0].EndTime)
}

func TestEngine_SecondRunIsNoOp(t *testing.T) {
	inner := newStore(t)
	seed(t, inner,
		mark("alice", "2024-01-01", "09:00"),
		mark("bob", "2024-01-02", "10:00"),
	)
	store := &faultyStore{TimeSlotRepository: inner}
	engine := NewEngine(store, Clock{}, nil)

	require.NoError(t, engine.Run(context.Background(), "2024-01-05"))
	after := contents(t, inner)
	inserts, deletes := store.inserts, store.deletes

	require.NoError(t, engine.Run(context.Background(), "2024-01-05"))
	assert.Equal(t, after, contents(t, inner))
	assert.Equal(t, inserts, store.inserts, "no inserts on second run")
	assert.Equal(t, deletes, store.deletes, "no deletes on second run")
}

func TestEngine_InsertFailureKeepsOldSlotsAndContinues(t *testing.T) {
	inner := newStore(t)
	seed(t, inner,
		mark("alice", "2024-01-01", "09:00"),
		mark("bob", "2024-01-01", "10:00"),
		mark("carol", "2024-01-02", "12:00"),
	)
	store := &faultyStore{TimeSlotRepository: inner, failInsertDate: "2024-01-08"}
	engine := NewEngine(store, Clock{}, nil)

	err := engine.Run(context.Background(), "2024-01-05")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsert)
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrDelete)

	past, err := inner.Find(context.Background(), timeslotRepo.Filter{Before: "2024-01-05"})
	require.NoError(t, err)
	require.Len(t, past, 2, "old slots of the failed date survive")
	for _, s := range past {
		assert.Equal(t, "2024-01-01", s.Date)
	}

	moved, err := inner.Find(context.Background(), timeslotRepo.Filter{Date: "2024-01-09"})
	require.NoError(t, err)
	assert.Len(t, moved, 1, "other dates still roll over")
}

func TestEngine_DeleteFailureStopsThatDate(t *testing.T) {
	inner := newStore(t)
	seed(t, inner,
		mark("alice", "2024-01-01", "09:00"),
		mark("bob", "2024-01-01", "10:00"),
		mark("carol", "2024-01-01", "12:00"),
		mark("dave", "2024-01-02", "12:00"),
	)
	store := &faultyStore{TimeSlotRepository: inner, failDeleteOn: 2}
	engine := NewEngine(store, Clock{}, nil)

	err := engine.Run(context.Background(), "2024-01-05")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelete)

	// First delete went through, second failed, third was never attempted.
	old, err := inner.Find(context.Background(), timeslotRepo.Filter{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Len(t, old, 2)

	// New records for the failed date stay.
	fresh, err := inner.Find(context.Background(), timeslotRepo.Filter{Date: "2024-01-08"})
	require.NoError(t, err)
	assert.Len(t, fresh, 3)

	// The next date was processed in full: 1 delete there plus 2 on the first date.
	assert.Equal(t, 3, store.deletes)
	next, err := inner.Find(context.Background(), timeslotRepo.Filter{Date: "2024-01-09"})
	require.NoError(t, err)
	assert.Len(t, next, 1)
}

func TestEngine_ReadFailureAbortsRun(t *testing.T) {
	inner := newStore(t)
	seed(t, inner, mark("alice", "2024-01-01", "09:00"))
	store := &faultyStore{TimeSlotRepository: inner, failRead: true}

	err := NewEngine(store, Clock{}, nil).Run(context.Background(), "2024-01-05")
	require.ErrorIs(t, err, ErrRead)
	assert.Zero(t, store.inserts)
	assert.Zero(t, store.deletes)
}

func TestEngine_AccumulatedWeeksMoveOneWeekPerRun(t *testing.T) {
	store := newStore(t)
	seed(t, store, mark("alice", "2023-12-20", "09:00"))
	engine := NewEngine(store, Clock{}, nil)

	require.NoError(t, engine.Run(context.Background(), "2024-01-05"))
	assert.Equal(t, []triple{{"alice", "2023-12-27", "09:00"}}, contents(t, store))

	require.NoError(t, engine.Run(context.Background(), "2024-01-05"))
	assert.Equal(t, []triple{{"alice", "2024-01-03", "09:00"}}, contents(t, store))
}

func TestEngine_TransactionalDeleteFailureRollsBackDate(t *testing.T) {
	inner := newStore(t)
	seed(t, inner,
		mark("alice", "2024-01-01", "09:00"),
		mark("bob", "2024-01-01", "10:00"),
	)
	store := &faultyTxStore{
		faultyStore: &faultyStore{TimeSlotRepository: inner, failDeleteOn: 2},
		tx:          inner,
	}
	engine := NewEngine(store, Clock{}, nil)
	engine.Transactional = true

	err := engine.Run(context.Background(), "2024-01-05")
	require.ErrorIs(t, err, ErrDelete)

	assert.Equal(t, []triple{
		{"alice", "2024-01-01", "09:00"},
		{"bob", "2024-01-01", "10:00"},
	}, contents(t, inner))
}

func TestEngine_TransactionalSuccess(t *testing.T) {
	inner := newStore(t)
	seed(t, inner, mark("alice", "2024-01-01", "09:00"))

	engine := NewEngine(inner, Clock{}, nil)
	engine.Transactional = true
	require.NoError(t, engine.Run(context.Background(), "2024-01-05"))

	assert.Equal(t, []triple{{"alice", "2024-01-08", "09:00"}}, contents(t, inner))
}

func TestEngine_RunNowUsesReferenceClock(t *testing.T) {
	store := newStore(t)
	seed(t, store,
		mark("alice", "2024-01-04", "09:00"),
		mark("bob", "2024-01-05", "10:00"),
	)

	// Still Jan 4 in UTC, already Jan 5 in Oslo.
	clock := fixedClock(t, "Europe/Oslo", time.Date(2024, time.January, 4, 23, 30, 0, 0, time.UTC))
	require.NoError(t, NewEngine(store, clock, nil).RunNow(context.Background()))

	assert.Equal(t, []triple{
		{"bob", "2024-01-05", "10:00"},
		{"alice", "2024-01-11", "09:00"},
	}, contents(t, store))
}
