package models

// Session identifies the roster member a request acts for.
type Session struct {
	UserID string `json:"userId"`
}
