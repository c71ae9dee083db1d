package models

import "time"

// AttendanceStatus marks a student's presence for one day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// BehaviorStatus classifies a behavior record.
type BehaviorStatus string

const (
	BehaviorPositive BehaviorStatus = "positive"
	BehaviorNegative BehaviorStatus = "negative"
	BehaviorNeutral  BehaviorStatus = "neutral"
)

// BehaviorRecord represents one persisted attendance/behavior entry for a
// student on a given date. Records are idempotent by ID: saving the same
// ID twice overwrites rather than duplicates.
type BehaviorRecord struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"studentId"`
	ClassID        string           `json:"classId"`
	Date           string           `json:"date"` // YYYY-MM-DD
	Status         AttendanceStatus `json:"status"`
	BehaviorStatus BehaviorStatus   `json:"behaviorStatus"`
	Note           string           `json:"note,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// HallPass represents an outstanding hall-pass ticket. Tickets live only
// for the session; they are never persisted.
type HallPass struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// StickyNote represents a saved note from the sticky-note overlay.
type StickyNote struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"classId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
