package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySession is one measured visit to a tracked page by one user in one
// tab. SessionEnd and DurationSeconds stay nil until the tab closes the
// session; a row that keeps a nil SessionEnd forever is an abandoned visit and
// downstream aggregation treats it as incomplete, not zero.
type ActivitySession struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	PageName        string     `json:"page_name"`
	SessionStart    time.Time  `json:"session_start"`
	SessionEnd      *time.Time `json:"session_end,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	LastEventAt     time.Time  `json:"last_event_at"`
}

// Close reasons reported by the tab.
const (
	CloseReasonUnmount = "unmount"
	CloseReasonUnload  = "unload"
)
