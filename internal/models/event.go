package models

import "time"

// SchoolRegisteredEvent is published after a school row has been inserted.
type SchoolRegisteredEvent struct {
	SchoolID     uint      `json:"school_id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Image        string    `json:"image"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewSchoolRegisteredEvent builds the event for a freshly created school.
func NewSchoolRegisteredEvent(s *School) SchoolRegisteredEvent {
	return SchoolRegisteredEvent{
		SchoolID:     s.ID,
		Name:         s.Name,
		City:         s.City,
		State:        s.State,
		Image:        s.Image,
		RegisteredAt: time.Now().UTC(),
	}
}
