package service

import (
	"context"
	"time"

	"github.com/evreg/registration-service/internal/entity"
)

type EventService interface {
	CreateEvent(ctx context.Context, creatorID string, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	GetAllEvents(ctx context.Context) ([]*entity.Event, error)
	GetEventsByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, id, organizerID string, req *UpdateEventRequest) (*entity.Event, error)
	SetEventEnabled(ctx context.Context, id, organizerID string, enabled bool) error
	DeleteEvent(ctx context.Context, id, organizerID string) error
}

type EmailValidationService interface {
	ValidateEmail(ctx context.Context, eventID, email string) (*EmailValidationResult, error)
	ValidateMultipleEmails(ctx context.Context, eventID string, emails []string) (*EmailValidationResult, error)

	// Wrappers translating an invalid result into a conflict error.
	CheckIndividualEmail(ctx context.Context, eventID, email string) error
	CheckTeamEmails(ctx context.Context, eventID string, emails []string) error
}

type CapacityService interface {
	ValidateCapacity(ctx context.Context, eventID string, requested int) (*CapacityResult, error)
	EnsureIndividualCapacity(ctx context.Context, eventID string) error
	EnsureTeamCapacity(ctx context.Context, eventID string, teamSize int) error
	IsEventAvailableForRegistration(ctx context.Context, eventID string) (bool, error)
}

type RegistrationService interface {
	RegisterIndividual(ctx context.Context, eventID string, input *ParticipantInput) (*RegistrationResult, error)
	RegisterTeam(ctx context.Context, eventID string, inputs []*ParticipantInput) (*RegistrationResult, error)

	// ValidateOnly runs the full rule chain without creating anything,
	// used for pre-payment dry-runs.
	ValidateOnly(ctx context.Context, eventID string, regType entity.RegistrationType, inputs []*ParticipantInput) error
}

type ParticipantService interface {
	ListEventParticipants(ctx context.Context, eventID, organizerID string) (*ParticipantListing, error)
	ListGroupedByReservation(ctx context.Context, eventID, organizerID string) ([]*entity.ReservationGroup, error)
	DeleteReservation(ctx context.Context, reservationID, organizerID string) error
}

type PaymentService interface {
	SetPaymentStatus(ctx context.Context, reservationID string, paid bool, paymentDate *time.Time) (*entity.Registration, error)
	MarkPaid(ctx context.Context, reservationID string) (*entity.Registration, error)
	MarkUnpaid(ctx context.Context, reservationID string) (*entity.Registration, error)

	// GetPaymentStatus returns nil (no error) when the registration does not
	// exist; infrastructure errors propagate.
	GetPaymentStatus(ctx context.Context, reservationID string) (*PaymentStatus, error)
}

// NotificationPublisher pushes messages to the outbound queue. Publication is
// fire-and-forget: callers log failures and never surface them.
type NotificationPublisher interface {
	Publish(ctx context.Context, message *entity.NotificationMessage) error
}
