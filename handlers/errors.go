package handlers

import (
	"errors"
	"net/http"

	"keyscal/services/timeslot"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, timeslot.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, timeslot.ErrPastDate):
		return http.StatusBadRequest
	case errors.Is(err, timeslot.ErrNotOnRoster):
		return http.StatusForbidden
	case errors.Is(err, timeslot.ErrDuplicateSlot):
		return http.StatusConflict
	case errors.Is(err, timeslot.ErrSlotNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
