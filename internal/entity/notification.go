package entity

import (
	"time"
)

// Notification template keys consumed by the email worker.
const (
	TemplateRegistrationConfirmation     = "registration_confirmation"
	TemplateTeamRegistrationConfirmation = "team_registration_confirmation"
	TemplatePaymentReceived              = "payment_received"
)

// NotificationMessage is the payload published to the outbound queue after a
// successful registration or payment update. Delivery is fire-and-forget;
// redelivery is the broker's responsibility.
type NotificationMessage struct {
	ID            string    `json:"id"`
	Template      string    `json:"template"`
	Recipient     string    `json:"recipient"`
	RecipientName string    `json:"recipient_name"`
	EventID       string    `json:"event_id"`
	EventTitle    string    `json:"event_title"`
	ReservationID string    `json:"reservation_id"`
	Participants  int       `json:"participants"`
	TotalFee      float64   `json:"total_fee"`
	TeamMembers   []string  `json:"team_members,omitempty"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}
