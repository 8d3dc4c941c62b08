package rollover

import (
	"time"

	"keyscal/models"
)

// Clock yields the canonical calendar date in one fixed reference timezone,
// independent of the machine's local zone.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock returns a Clock on the wall clock for loc.
func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc, Now: time.Now}
}

// Time returns the current instant in the reference timezone.
func (c Clock) Time() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today returns the reference-timezone date as YYYY-MM-DD.
func (c Clock) Today() string {
	return c.Time().Format(models.DateLayout)
}
