package rollover

import (
	"context"
	"errors"
	"fmt"
	"sort"

	timeslotRepo "keyscal/database/repository/timeslot"
	"keyscal/models"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrRead   = errors.New("rollover: reading past slots failed")
	ErrInsert = errors.New("rollover: inserting next-week slots failed")
	ErrDelete = errors.New("rollover: deleting past slot failed")
)

// SlotStore is the part of the slot repository the engine needs.
type SlotStore interface {
	Find(ctx context.Context, filter timeslotRepo.Filter) ([]models.TimeSlot, error)
	InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error)
	DeleteByID(ctx context.Context, id string) error
}

// Engine moves every slot whose date has passed seven days forward.
//
// Per past date the new slots are inserted as one batch before any old slot
// of that date is deleted, so a failed insert never loses data. There is no
// locking: two concurrent runs over the same past dates can both insert.
type Engine struct {
	Store  SlotStore
	Clock  Clock
	Logger *zap.Logger

	// Transactional runs each date's insert and deletes in one store
	// transaction when the store implements timeslotRepo.Transactor.
	Transactional bool
}

func NewEngine(store SlotStore, clock Clock, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Store: store, Clock: clock, Logger: logger}
}

// RunNow rolls over everything dated before today in the reference timezone.
func (e *Engine) RunNow(ctx context.Context) error {
	return e.Run(ctx, e.Clock.Today())
}

// Run rolls over every slot dated strictly before today (YYYY-MM-DD).
// A read failure aborts the run. Insert and delete failures abort only the
// date they occur on; all of them are returned together.
func (e *Engine) Run(ctx context.Context, today string) error {
	log := e.logger().With(zap.String("today", today))

	past, err := e.Store.Find(ctx, timeslotRepo.Filter{Before: today})
	if err != nil {
		log.Error("rollover: failed to fetch past slots", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(past) == 0 {
		log.Debug("rollover: no past slots")
		return nil
	}

	byDate := make(map[string][]models.TimeSlot)
	for _, s := range past {
		byDate[s.Date] = append(byDate[s.Date], s)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	log.Info("rollover: moving past slots forward", zap.Int("slots", len(past)), zap.Strings("dates", dates))

	var errs error
	for _, date := range dates {
		if err := e.rollDate(ctx, date, byDate[date]); err != nil {
			log.Error("rollover: date failed", zap.String("date", date), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (e *Engine) rollDate(ctx context.Context, date string, old []models.TimeSlot) error {
	next, err := NextWeek(date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsert, err)
	}

	fresh := make([]models.TimeSlot, len(old))
	for i, s := range old {
		fresh[i] = models.TimeSlot{
			UserID:    s.UserID,
			Date:      next,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}

	if tx, ok := e.Store.(timeslotRepo.Transactor); ok && e.Transactional {
		return tx.WithTransaction(ctx, func(ctx context.Context, repo timeslotRepo.TimeSlotRepository) error {
			return e.replace(ctx, repo, date, next, old, fresh)
		})
	}
	return e.replace(ctx, e.Store, date, next, old, fresh)
}

// replace inserts fresh, then deletes old one slot at a time, stopping at the
// first delete failure. Already deleted slots are not restored.
func (e *Engine) replace(ctx context.Context, store SlotStore, date, next string, old, fresh []models.TimeSlot) error {
	if _, err := store.InsertMany(ctx, fresh); err != nil {
		return fmt.Errorf("%w: date %s: %w", ErrInsert, date, err)
	}

	for i, s := range old {
		if err := store.DeleteByID(ctx, s.ID); err != nil {
			return fmt.Errorf("%w: date %s: slot %s (%d of %d deleted): %w", ErrDelete, date, s.ID, i, len(old), err)
		}
	}

	e.logger().Info("rollover: date moved",
		zap.String("from", date),
		zap.String("to", next),
		zap.Int("slots", len(old)),
	)
	return nil
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
