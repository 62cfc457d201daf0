package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	Scheduled SessionStatus = "scheduled"
	Completed SessionStatus = "completed"
	Cancelled SessionStatus = "cancelled"
)

type Session struct {
	ID              uuid.UUID     `json:"id"`
	ClassID         uuid.UUID     `json:"classId"`
	SeriesID        uuid.UUID     `json:"seriesId"`
	StartTime       time.Time     `json:"startTime"`
	AllDay          bool          `json:"allDay"`
	DurationMinutes int           `json:"durationMinutes"`
	Capacity        int           `json:"capacity"`
	Status          SessionStatus `json:"status"`
	Notes           string        `json:"notes"`
	CreatedAt       time.Time     `json:"createdAt"`
}

func (session Session) EndTime() time.Time {
	return session.StartTime.Add(time.Duration(session.DurationMinutes) * time.Minute)
}

// Series groups the sessions created from one recurrence rule.
type Series struct {
	ID        uuid.UUID `json:"id"`
	ClassID   uuid.UUID `json:"classId"`
	RRule     string    `json:"rrule"`
	Sessions  []Session `json:"sessions"`
	CreatedBy string    `json:"createdBy"`
}
