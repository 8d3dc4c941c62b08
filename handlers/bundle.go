// File: keyscal/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Roster []string

	// Health
	HealthHandler gin.HandlerFunc

	// Users
	GetRosterHandler gin.HandlerFunc

	// Calendar view and rollover
	GetWeekHandler  gin.HandlerFunc
	RolloverHandler gin.HandlerFunc
	GetICSHandler   gin.HandlerFunc

	// Time slot CRUD
	GetTimeSlotsByDateHandler gin.HandlerFunc
	CreateTimeSlotHandler     gin.HandlerFunc
	UpdateTimeSlotHandler     gin.HandlerFunc
	DeleteTimeSlotHandler     gin.HandlerFunc

	// Grid toggles
	ToggleCellHandler gin.HandlerFunc
	ToggleDayHandler  gin.HandlerFunc
}
