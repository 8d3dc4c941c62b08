package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date form every slot date is stored in.
const DateLayout = "2006-01-02"

// TimeSlot is one hour-long availability mark for one roster member on one date.
type TimeSlot struct {
	ID        string    `bson:"id" json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `bson:"userId" json:"userId" gorm:"type:varchar(64);not null;index:idx_time_slots_user_date"`
	Date      string    `bson:"date" json:"date" gorm:"type:varchar(10);not null;index;index:idx_time_slots_user_date"`
	StartTime string    `bson:"startTime" json:"startTime" gorm:"type:varchar(5);not null"`
	EndTime   string    `bson:"endTime" json:"endTime" gorm:"type:varchar(5);not null"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt" gorm:"not null"`
}

// TableName pins the SQL table name.
func (TimeSlot) TableName() string { return "time_slots" }

// CreateTimeSlotRequest is the payload for creating a single slot.
type CreateTimeSlotRequest struct {
	UserID    string `json:"userId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// UpdateTimeSlotRequest carries the only mutable fields of a slot.
type UpdateTimeSlotRequest struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// ToggleCellRequest flips a single (date, hour) cell for the session user.
type ToggleCellRequest struct {
	Date string `json:"date" binding:"required"`
	Hour *int   `json:"hour" binding:"required"`
}

// ToggleDayRequest flips every grid hour of a date for the session user.
type ToggleDayRequest struct {
	Date string `json:"date" binding:"required"`
}

// ToggleResult reports what a toggle did.
type ToggleResult struct {
	Selected bool       `json:"selected"`
	Created  []TimeSlot `json:"created,omitempty"`
	Removed  []string   `json:"removed,omitempty"`
}

// FormatHour renders an hour of day as "HH:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
