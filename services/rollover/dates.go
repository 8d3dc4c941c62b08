package rollover

import (
	"fmt"
	"time"

	"keyscal/models"
)

// RolloverDays is how far a past slot is moved forward.
const RolloverDays = 7

// NextWeek returns date shifted by seven calendar days.
func NextWeek(date string) (string, error) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid slot date %q: %w", date, err)
	}
	return d.AddDate(0, 0, RolloverDays).Format(models.DateLayout), nil
}
