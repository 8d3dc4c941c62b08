package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"keyscal/models"

	ical "github.com/arran4/golang-ical"
)

// Window is a run of consecutive grid hours in which the whole roster is free.
type Window struct {
	Date  string
	Start time.Time
	End   time.Time
}

// EveryoneWindows merges adjacent everyone-available cells of each day into
// windows. Hours are read as wall-clock times in loc, so 24:00 lands on the
// following midnight.
func EveryoneWindows(days []models.DayView, loc *time.Location) ([]Window, error) {
	var out []Window
	for _, day := range days {
		date, err := time.ParseInLocation(models.DateLayout, day.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", day.Date, err)
		}

		var open *Window
		for _, cell := range day.Cells {
			if !cell.Everyone {
				open = nil
				continue
			}
			start, err := cellHour(cell.StartTime)
			if err != nil {
				return nil, err
			}
			from := time.Date(date.Year(), date.Month(), date.Day(), start, 0, 0, 0, loc)
			to := from.Add(time.Hour)
			if open != nil && open.End.Equal(from) {
				open.End = to
				continue
			}
			out = append(out, Window{Date: day.Date, Start: from, End: to})
			open = &out[len(out)-1]
		}
	}
	return out, nil
}

func cellHour(v string) (int, error) {
	hh, _, _ := strings.Cut(v, ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid cell time %q", v)
	}
	return h, nil
}

// ExportICS renders windows as an iCalendar feed with one VEVENT per window.
// UIDs are derived from the window start so re-exports update rather than
// duplicate events in subscribing clients.
func ExportICS(windows []Window, name string, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//keyscal//availability//EN")
	cal.SetXWRCalName(name)

	for _, w := range windows {
		uid := fmt.Sprintf("%s@keyscal", w.Start.UTC().Format("20060102T150405Z"))
		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp)
		event.SetStartAt(w.Start)
		event.SetEndAt(w.End)
		event.SetSummary("Everyone available")
		event.SetDescription(fmt.Sprintf("%s %s-%s", w.Date, w.Start.Format("15:04"), w.End.Format("15:04")))
	}
	return cal.Serialize()
}
