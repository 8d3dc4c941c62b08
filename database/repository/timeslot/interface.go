// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"errors"
	"time"

	"keyscal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup or update targets a missing slot id.
var ErrNotFound = errors.New("timeslot not found")

// DefaultTimeout bounds every single store call.
const DefaultTimeout = 5 * time.Second

// Filter selects slots. Empty fields do not constrain the query.
type Filter struct {
	Date      string // exact date
	Before    string // date < Before, lexicographic on YYYY-MM-DD
	UserID    string
	StartTime string
}

// OnlyDate reports whether the filter is a plain exact-date query.
func (f Filter) OnlyDate() bool {
	return f.Date != "" && f.Before == "" && f.UserID == "" && f.StartTime == ""
}

type TimeSlotRepository interface {
	Find(ctx context.Context, filter Filter) ([]models.TimeSlot, error)
	GetByID(ctx context.Context, id string) (*models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	// InsertMany stores the batch and returns it with ids and creation times assigned.
	InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error)
	UpdateTimes(ctx context.Context, id, startTime, endTime string) (*models.TimeSlot, error)
	// DeleteByID removes a slot. A missing id is not an error.
	DeleteByID(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Transactor is implemented by stores that can run several calls atomically.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TimeSlotRepository) error) error
}

// stamp assigns the store-owned fields of a new slot.
func stamp(slot *models.TimeSlot, now time.Time) {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now.UTC().Truncate(time.Millisecond)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
