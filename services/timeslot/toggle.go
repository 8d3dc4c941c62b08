// File: services/timeslot/toggle.go
package timeslot

import (
	"context"
	"fmt"

	timeslotRepo "keyscal/database/repository/timeslot"
	"keyscal/models"
)

// ToggleCell marks (date, hour) for the session user, or clears the mark
// when one already exists.
func (s *DefaultTimeSlotService) ToggleCell(ctx context.Context, session models.Session, date string, hour int) (*models.ToggleResult, error) {
	if err := s.guard(session, date); err != nil {
		return nil, err
	}
	if !s.onGrid(hour) {
		return nil, fmt.Errorf("%w: hour %d is not on the grid", ErrInvalidSlot, hour)
	}
	start := models.FormatHour(hour)
	if err := validateTimes(start, models.FormatHour(hour+1)); err != nil {
		return nil, err
	}

	existing, err := s.Repo.Find(ctx, timeslotRepo.Filter{Date: date, UserID: session.UserID, StartTime: start})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslot: %w", err)
	}

	if len(existing) > 0 {
		result := &models.ToggleResult{Selected: false}
		for _, slot := range existing {
			if err := s.Repo.DeleteByID(ctx, slot.ID); err != nil {
				return nil, fmt.Errorf("failed to delete timeslot: %w", err)
			}
			result.Removed = append(result.Removed, slot.ID)
		}
		return result, nil
	}

	slot := &models.TimeSlot{
		UserID:    session.UserID,
		Date:      date,
		StartTime: start,
		EndTime:   models.FormatHour(hour + 1),
	}
	if err := s.Repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create timeslot: %w", err)
	}
	return &models.ToggleResult{Selected: true, Created: []models.TimeSlot{*slot}}, nil
}

// ToggleDay clears every slot the session user has on date when all grid
// hours are already marked, and otherwise marks the missing hours.
func (s *DefaultTimeSlotService) ToggleDay(ctx context.Context, session models.Session, date string) (*models.ToggleResult, error) {
	if err := s.guard(session, date); err != nil {
		return nil, err
	}

	mine, err := s.Repo.Find(ctx, timeslotRepo.Filter{Date: date, UserID: session.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	have := make(map[string]bool, len(mine))
	for _, slot := range mine {
		have[slot.StartTime] = true
	}

	var missing []models.TimeSlot
	for _, h := range s.Hours {
		start := models.FormatHour(h)
		if !have[start] {
			missing = append(missing, models.TimeSlot{
				UserID:    session.UserID,
				Date:      date,
				StartTime: start,
				EndTime:   models.FormatHour(h + 1),
			})
		}
	}

	if len(missing) == 0 {
		result := &models.ToggleResult{Selected: false}
		for _, slot := range mine {
			if err := s.Repo.DeleteByID(ctx, slot.ID); err != nil {
				return nil, fmt.Errorf("failed to delete timeslot: %w", err)
			}
			result.Removed = append(result.Removed, slot.ID)
		}
		return result, nil
	}

	created, err := s.Repo.InsertMany(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to create timeslots: %w", err)
	}
	return &models.ToggleResult{Selected: true, Created: created}, nil
}

// onGrid reports whether hour is one of the configured grid rows; slots
// outside them could never be toggled off again.
func (s *DefaultTimeSlotService) onGrid(hour int) bool {
	for _, h := range s.Hours {
		if h == hour {
			return true
		}
	}
	return false
}

func (s *DefaultTimeSlotService) guard(session models.Session, date string) error {
	if !s.onRoster(session.UserID) {
		return fmt.Errorf("%w: %q", ErrNotOnRoster, session.UserID)
	}
	if err := validateDate(date); err != nil {
		return err
	}
	if date < s.Clock.Today() {
		return fmt.Errorf("%w: %s", ErrPastDate, date)
	}
	return nil
}
