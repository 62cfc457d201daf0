package models

import "github.com/google/uuid"

type Class struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Level                  string    `json:"level"`
	InstructorID           *string   `json:"instructorId"`
	DefaultDurationMinutes int       `json:"defaultDurationMinutes"`
	DefaultCapacity        int       `json:"defaultCapacity"`
}
