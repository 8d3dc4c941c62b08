// File: services/timeslot/service.go
package timeslot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	timeslotRepo "keyscal/database/repository/timeslot"
	"keyscal/models"
	"keyscal/services/rollover"
)

var (
	ErrInvalidSlot   = errors.New("invalid timeslot")
	ErrDuplicateSlot = errors.New("timeslot already exists")
	ErrSlotNotFound  = errors.New("timeslot not found")
	ErrPastDate      = errors.New("cannot modify past dates")
	ErrNotOnRoster   = errors.New("user is not on the roster")
)

// TimeSlotService is the CRUD and toggle surface over the slot store.
type TimeSlotService interface {
	GetByDate(ctx context.Context, date string) ([]models.TimeSlot, error)
	GetByDates(ctx context.Context, dates []string) ([]models.TimeSlot, error)
	Create(ctx context.Context, req models.CreateTimeSlotRequest) (*models.TimeSlot, error)
	Update(ctx context.Context, id string, req models.UpdateTimeSlotRequest) (*models.TimeSlot, error)
	Delete(ctx context.Context, id string) error
	ToggleCell(ctx context.Context, session models.Session, date string, hour int) (*models.ToggleResult, error)
	ToggleDay(ctx context.Context, session models.Session, date string) (*models.ToggleResult, error)
}

// DefaultTimeSlotService is the production implementation.
type DefaultTimeSlotService struct {
	Repo   timeslotRepo.TimeSlotRepository
	Clock  rollover.Clock
	Roster []string
	Hours  []int
}

func NewDefaultTimeSlotService(
	repo timeslotRepo.TimeSlotRepository,
	clock rollover.Clock,
	roster []string,
	hours []int,
) (*DefaultTimeSlotService, error) {
	if repo == nil {
		return nil, fmt.Errorf("timeslot service initialization error: repository is nil")
	}
	return &DefaultTimeSlotService{Repo: repo, Clock: clock, Roster: roster, Hours: hours}, nil
}

func (s *DefaultTimeSlotService) GetByDate(ctx context.Context, date string) ([]models.TimeSlot, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	slots, err := s.Repo.Find(ctx, timeslotRepo.Filter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	return slots, nil
}

func (s *DefaultTimeSlotService) GetByDates(ctx context.Context, dates []string) ([]models.TimeSlot, error) {
	all := []models.TimeSlot{}
	for _, date := range dates {
		slots, err := s.GetByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		all = append(all, slots...)
	}
	return all, nil
}

// Create stores a new slot unless the user already holds that (date, startTime).
func (s *DefaultTimeSlotService) Create(ctx context.Context, req models.CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}
	if err := validateTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	existing, err := s.Repo.Find(ctx, timeslotRepo.Filter{
		Date:      req.Date,
		UserID:    req.UserID,
		StartTime: req.StartTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing timeslot: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %s %s %s", ErrDuplicateSlot, req.UserID, req.Date, req.StartTime)
	}

	slot := &models.TimeSlot{
		UserID:    req.UserID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.Repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create timeslot: %w", err)
	}
	return slot, nil
}

// Update changes only the start and end time of a slot.
func (s *DefaultTimeSlotService) Update(ctx context.Context, id string, req models.UpdateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := validateTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	slot, err := s.Repo.UpdateTimes(ctx, id, req.StartTime, req.EndTime)
	if errors.Is(err, timeslotRepo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update timeslot: %w", err)
	}
	return slot, nil
}

// Delete removes a slot. Deleting an id that does not exist succeeds.
func (s *DefaultTimeSlotService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete timeslot: %w", err)
	}
	return nil
}

func (s *DefaultTimeSlotService) onRoster(user string) bool {
	for _, r := range s.Roster {
		if r == user {
			return true
		}
	}
	return false
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidSlot, date)
	}
	return nil
}

// parseHour reads an "HH:00" wall-clock string.
func parseHour(v string) (int, bool) {
	hh, mm, ok := strings.Cut(v, ":")
	if !ok || len(hh) != 2 || mm != "00" {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	return h, true
}

// validateTimes enforces HH:00 with endTime exactly one hour after startTime.
func validateTimes(startTime, endTime string) error {
	start, ok := parseHour(startTime)
	if !ok || start < 0 || start > 24 {
		return fmt.Errorf("%w: startTime %q must be HH:00", ErrInvalidSlot, startTime)
	}
	if endTime != models.FormatHour(start+1) {
		return fmt.Errorf("%w: endTime %q must be one hour after %s", ErrInvalidSlot, endTime, startTime)
	}
	return nil
}
