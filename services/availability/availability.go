// Package availability builds the weekly grid and decides when the whole
// roster is free.
package availability

import (
	"sort"
	"time"

	"keyscal/models"
)

// EveryoneAvailable reports whether the distinct users holding a slot at
// exactly (date, startTime) are precisely the roster: same size, same members.
func EveryoneAvailable(slots []models.TimeSlot, date, startTime string, roster []string) bool {
	if len(roster) == 0 {
		return false
	}
	return sameSet(usersAt(slots, date, startTime), roster)
}

func usersAt(slots []models.TimeSlot, date, startTime string) map[string]struct{} {
	users := make(map[string]struct{})
	for _, s := range slots {
		if s.Date == date && s.StartTime == startTime {
			users[s.UserID] = struct{}{}
		}
	}
	return users
}

func sameSet(users map[string]struct{}, roster []string) bool {
	want := make(map[string]struct{}, len(roster))
	for _, r := range roster {
		want[r] = struct{}{}
	}
	if len(users) != len(want) {
		return false
	}
	for u := range users {
		if _, ok := want[u]; !ok {
			return false
		}
	}
	return true
}

// WeekDates returns seven consecutive YYYY-MM-DD dates starting on the most
// recent weekStart on or before today, shifted by offset weeks.
func WeekDates(today time.Time, weekStart time.Weekday, offset int) []string {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	start := day.AddDate(0, 0, -back+offset*7)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(models.DateLayout)
	}
	return dates
}

// Hours lists the grid hours first..last inclusive.
func Hours(first, last int) []int {
	if last < first {
		return nil
	}
	hours := make([]int, 0, last-first+1)
	for h := first; h <= last; h++ {
		hours = append(hours, h)
	}
	return hours
}

// BuildWeek lays slots out on a dates x hours grid. Days before today are
// flagged past.
func BuildWeek(dates []string, hours []int, slots []models.TimeSlot, roster []string, today string) []models.DayView {
	days := make([]models.DayView, 0, len(dates))
	for _, date := range dates {
		day := models.DayView{
			Date:  date,
			Past:  date < today,
			Cells: make([]models.Cell, 0, len(hours)),
		}
		for _, h := range hours {
			start := models.FormatHour(h)
			present := usersAt(slots, date, start)

			users := make([]string, 0, len(present))
			for u := range present {
				users = append(users, u)
			}
			sort.Strings(users)

			day.Cells = append(day.Cells, models.Cell{
				StartTime: start,
				EndTime:   models.FormatHour(h + 1),
				Users:     users,
				Everyone:  len(roster) > 0 && sameSet(present, roster),
			})
		}
		days = append(days, day)
	}
	return days
}
