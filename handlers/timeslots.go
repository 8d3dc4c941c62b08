package handlers

import (
	"net/http"

	"keyscal/models"
	"keyscal/services/timeslot"
	"keyscal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimeSlotHandler exposes slot CRUD and the grid toggles.
type TimeSlotHandler struct {
	Service timeslot.TimeSlotService
}

func NewTimeSlotHandler(svc timeslot.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{Service: svc}
}

// GetByDateHandler returns every slot on the :date path parameter.
func (h *TimeSlotHandler) GetByDateHandler(c *gin.Context) {
	slots, err := h.Service.GetByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		utils.JSONError(c, statusFor(err), "Error fetching time slots", err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *TimeSlotHandler) CreateHandler(c *gin.Context) {
	var req models.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	slot, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Error creating time slot", err)
		return
	}
	getLogger(c).Info("Time slot created",
		zap.String("id", slot.ID),
		zap.String("userId", slot.UserID),
		zap.String("date", slot.Date),
		zap.String("startTime", slot.StartTime),
	)
	c.JSON(http.StatusCreated, slot)
}

func (h *TimeSlotHandler) UpdateHandler(c *gin.Context) {
	var req models.UpdateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	slot, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Error updating time slot", err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteHandler succeeds whether or not the slot existed.
func (h *TimeSlotHandler) DeleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, statusFor(err), "Error deleting time slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Time slot deleted successfully"})
}

func (h *TimeSlotHandler) ToggleCellHandler(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	var req models.ToggleCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	res, err := h.Service.ToggleCell(c.Request.Context(), session, req.Date, *req.Hour)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to update time slot", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *TimeSlotHandler) ToggleDayHandler(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		return
	}
	var req models.ToggleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	res, err := h.Service.ToggleDay(c.Request.Context(), session, req.Date)
	if err != nil {
		utils.JSONError(c, statusFor(err), "Failed to update time slots", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// sessionFrom reads the session set by SessionMiddleware and aborts with 401
// when there is none.
func sessionFrom(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get("session")
	if session, ok := v.(models.Session); exists && ok && session.UserID != "" {
		return session, true
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please select your name first"})
	return models.Session{}, false
}
