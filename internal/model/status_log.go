package model

import "time"

// StatusLog records an administrative write against a status.
type StatusLog struct {
	ID        uint64    `json:"id"`
	StatusID  string    `json:"status_id"`
	Action    string    `json:"action"`
	Operator  string    `json:"operator"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusActionAdd        = "ADD"
	StatusActionUpdate     = "UPDATE"
	StatusActionActivate   = "ACTIVATE"
	StatusActionDeactivate = "DEACTIVATE"
	StatusActionDelete     = "DELETE"
)

// StatusLogFilter describes query parameters for log searching.
type StatusLogFilter struct {
	StatusID  string
	Action    string
	Operator  string
	BeginTime *time.Time
	EndTime   *time.Time
	Page      int
	PageSize  int
}
