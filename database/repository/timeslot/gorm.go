// File: database/repository/timeslot/gorm.go
package timeslotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keyscal/models"

	"gorm.io/gorm"
)

// GormTimeSlotRepository stores slots in the time_slots SQL table.
type GormTimeSlotRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormTimeSlotRepository(db *gorm.DB, timeout time.Duration) *GormTimeSlotRepository {
	return &GormTimeSlotRepository{db: db, timeout: timeout}
}

// AutoMigrate creates or updates the time_slots table.
func (r *GormTimeSlotRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.TimeSlot{})
}

func (r *GormTimeSlotRepository) Find(ctx context.Context, f Filter) ([]models.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&models.TimeSlot{})
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Before != "" {
		q = q.Where("date < ?", f.Before)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.StartTime != "" {
		q = q.Where("start_time = ?", f.StartTime)
	}

	slots := []models.TimeSlot{}
	if err := q.Order("date ASC, start_time ASC, user_id ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	return slots, nil
}

func (r *GormTimeSlotRepository) GetByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var slot models.TimeSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &slot, nil
}

func (r *GormTimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	stamp(slot, time.Now())
	if err := r.db.WithContext(ctx).Create(slot).Error; err != nil {
		return fmt.Errorf("failed to insert timeslot: %w", err)
	}
	return nil
}

func (r *GormTimeSlotRepository) InsertMany(ctx context.Context, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now()
	stored := make([]models.TimeSlot, len(slots))
	for i, slot := range slots {
		stamp(&slot, now)
		stored[i] = slot
	}
	if err := r.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to insert timeslots: %w", err)
	}
	return stored, nil
}

func (r *GormTimeSlotRepository) UpdateTimes(ctx context.Context, id, startTime, endTime string) (*models.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"start_time": startTime, "end_time": endTime})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update timeslot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload updated timeslot: %w", err)
	}
	return &slot, nil
}

func (r *GormTimeSlotRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Delete(&models.TimeSlot{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete timeslot: %w", err)
	}
	return nil
}

func (r *GormTimeSlotRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// WithTransaction runs fn against a repository bound to one SQL transaction.
func (r *GormTimeSlotRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TimeSlotRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormTimeSlotRepository{db: tx, timeout: r.timeout})
	})
}
