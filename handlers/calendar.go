package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"keyscal/models"
	"keyscal/services/availability"
	"keyscal/services/rollover"
	"keyscal/services/timeslot"
	"keyscal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Roller runs the past-slot rollover against the reference clock.
type Roller interface {
	RunNow(ctx context.Context) error
}

// CalendarHandler serves the weekly view and the explicit rollover trigger.
type CalendarHandler struct {
	Service   timeslot.TimeSlotService
	Rollover  Roller
	Clock     rollover.Clock
	Roster    []string
	WeekStart time.Weekday
	Hours     []int
}

// GetWeekHandler rolls past slots forward, then returns the grid for the week
// at ?offset= weeks from the current one. A failed rollover is reported as a
// warning on an otherwise normal response.
func (h *CalendarHandler) GetWeekHandler(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()

	offset, ok := weekOffset(c)
	if !ok {
		return
	}

	view := models.WeekView{Offset: offset, Roster: h.Roster}
	// A client hanging up must not cut the rollover between insert and delete.
	if err := h.Rollover.RunNow(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Failed to cleanup past time slots", zap.Error(err))
		view.Warning = "Failed to cleanup past time slots"
	}

	now := h.Clock.Time()
	view.Today = now.Format(models.DateLayout)
	dates := availability.WeekDates(now, h.WeekStart, offset)

	slots, err := h.Service.GetByDates(ctx, dates)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load time slots", err)
		return
	}
	view.Days = availability.BuildWeek(dates, h.Hours, slots, h.Roster, view.Today)
	c.JSON(http.StatusOK, view)
}

// GetICSHandler exports the everyone-available windows of the week at
// ?offset= as an iCalendar feed.
func (h *CalendarHandler) GetICSHandler(c *gin.Context) {
	offset, ok := weekOffset(c)
	if !ok {
		return
	}

	now := h.Clock.Time()
	today := now.Format(models.DateLayout)
	dates := availability.WeekDates(now, h.WeekStart, offset)
	slots, err := h.Service.GetByDates(c.Request.Context(), dates)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load time slots", err)
		return
	}

	days := availability.BuildWeek(dates, h.Hours, slots, h.Roster, today)
	windows, err := availability.EveryoneWindows(days, now.Location())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build calendar", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="keyscal-%s.ics"`, dates[0]))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(availability.ExportICS(windows, "Keys calendar", now)))
}

func (h *CalendarHandler) RolloverHandler(c *gin.Context) {
	if err := h.Rollover.RunNow(context.WithoutCancel(c.Request.Context())); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to cleanup past time slots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Past time slots rolled over", "today": h.Clock.Today()})
}

// GetRosterHandler lists the users that count as everyone.
func (h *CalendarHandler) GetRosterHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.Roster})
}

// weekOffset reads ?offset= and answers 400 for anything but a
// non-negative integer.
func weekOffset(c *gin.Context) (int, bool) {
	q := c.Query("offset")
	if q == "" {
		return 0, true
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
