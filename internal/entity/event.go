package entity

import (
	"time"
)

type RegistrationType string

const (
	RegistrationTypeIndividual RegistrationType = "individual"
	RegistrationTypeTeam       RegistrationType = "team"
)

type Event struct {
	ID                   string           `json:"id" db:"id"`
	CreatorID            string           `json:"creator_id" db:"creator_id"`
	Title                string           `json:"title" db:"title"`
	Description          string           `json:"description" db:"description"`
	MaxParticipants      int              `json:"max_participants" db:"max_participants"`
	CurrentParticipants  int              `json:"current_participants" db:"current_participants"`
	Enabled              bool             `json:"enabled" db:"enabled"`
	RegistrationDeadline time.Time        `json:"registration_deadline" db:"registration_deadline"`
	RegistrationFee      float64          `json:"registration_fee" db:"registration_fee"`
	RegistrationType     RegistrationType `json:"registration_type" db:"registration_type"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// AvailableSpots reports how many participants the event can still take.
func (e *Event) AvailableSpots() int {
	return e.MaxParticipants - e.CurrentParticipants
}

// IsOpenForRegistration is true while the event is enabled and the deadline
// has not passed. A deadline exactly equal to now still counts as open.
func (e *Event) IsOpenForRegistration(now time.Time) bool {
	return e.Enabled && !now.After(e.RegistrationDeadline)
}
