package models

// Cell is one (date, hour) square of the weekly grid.
type Cell struct {
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Users     []string `json:"users"`
	Everyone  bool     `json:"everyone"`
}

// DayView is one column of the weekly grid.
type DayView struct {
	Date  string `json:"date"`
	Past  bool   `json:"past"`
	Cells []Cell `json:"cells"`
}

// WeekView is the full availability grid for seven consecutive dates.
type WeekView struct {
	Offset  int       `json:"offset"`
	Today   string    `json:"today"`
	Roster  []string  `json:"roster"`
	Days    []DayView `json:"days"`
	Warning string    `json:"warning,omitempty"`
}
