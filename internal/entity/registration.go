package entity

import (
	"time"
)

// Registration is the reservation record that owns one participant for an
// individual signup or several for a team. Participants are always created
// and deleted together with their registration.
type Registration struct {
	ID                string           `json:"id" db:"id"`
	EventID           string           `json:"event_id" db:"event_id"`
	Type              RegistrationType `json:"type" db:"type"`
	TotalParticipants int              `json:"total_participants" db:"total_participants"`
	TotalFee          float64          `json:"total_fee" db:"total_fee"`
	PaymentStatus     bool             `json:"payment_status" db:"payment_status"`
	PaymentDate       *time.Time       `json:"payment_date,omitempty" db:"payment_date"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Participant struct {
	ID               string           `json:"id" db:"id"`
	ReservationID    string           `json:"reservation_id" db:"reservation_id"`
	EventID          string           `json:"event_id" db:"event_id"`
	Email            string           `json:"email" db:"email"`
	SecondaryEmail   string           `json:"secondary_email,omitempty" db:"secondary_email"`
	FirstName        string           `json:"first_name" db:"first_name"`
	LastName         string           `json:"last_name" db:"last_name"`
	Phone            string           `json:"phone,omitempty" db:"phone"`
	DateOfBirth      string           `json:"date_of_birth,omitempty" db:"date_of_birth"`
	MedicalInfo      string           `json:"medical_info,omitempty" db:"medical_info"`
	EmergencyContact EmergencyContact `json:"emergency_contact,omitempty"`
	WaiverAccepted   bool             `json:"waiver_accepted" db:"waiver_accepted"`
	NewsletterOptIn  bool             `json:"newsletter_opt_in" db:"newsletter_opt_in"`
	Role             string           `json:"role,omitempty" db:"role"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// ParticipantWithRegistration is a participant merged with payment and type
// data from its owning registration, as returned by organizer listings.
type ParticipantWithRegistration struct {
	Participant
	RegistrationType  RegistrationType `json:"registration_type"`
	PaymentStatus     bool             `json:"payment_status"`
	TotalFee          float64          `json:"total_fee"`
	TotalParticipants int              `json:"registration_size"`
}

// ParticipantSummary aggregates an event's registrations, deduplicated per
// reservation.
type ParticipantSummary struct {
	TotalParticipants       int `json:"total_participants"`
	TotalRegistrations      int `json:"total_registrations"`
	PaidRegistrations       int `json:"paid_registrations"`
	UnpaidRegistrations     int `json:"unpaid_registrations"`
	IndividualRegistrations int `json:"individual_registrations"`
	TeamRegistrations       int `json:"team_registrations"`
}

// ReservationGroup buckets an event's participants by their reservation.
type ReservationGroup struct {
	ReservationID string                        `json:"reservation_id"`
	Type          RegistrationType              `json:"type"`
	PaymentStatus bool                          `json:"payment_status"`
	TotalFee      float64                       `json:"total_fee"`
	Participants  []ParticipantWithRegistration `json:"participants"`
}
