package repository

import (
	"context"
	"time"

	"github.com/evreg/registration-service/internal/entity"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)
	GetByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error

	// Counter operations used by the registration flow. Increment is an
	// independent write with no isolation against the capacity check; the
	// decrement only ever runs inside DeleteReservation's transaction.
	IncrementParticipants(ctx context.Context, id string, delta int) error
}

type RegistrationRepository interface {
	Create(ctx context.Context, registration *entity.Registration) error
	GetByID(ctx context.Context, id string) (*entity.Registration, error)
	GetByEventID(ctx context.Context, eventID string) ([]*entity.Registration, error)
	GetByPaymentStatus(ctx context.Context, eventID string, paid bool) ([]*entity.Registration, error)
	UpdatePaymentStatus(ctx context.Context, id string, paid bool, paymentDate time.Time) error

	// DeleteReservation removes the registration, all of its participants and
	// decrements the event counter by the participant count in one
	// transaction. Either all changes apply or none.
	DeleteReservation(ctx context.Context, reservationID, eventID string, participantCount int) error
}

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, participants []*entity.Participant) error
	GetByID(ctx context.Context, id string) (*entity.Participant, error)
	GetByEventID(ctx context.Context, eventID string) ([]*entity.Participant, error)
	GetByReservationID(ctx context.Context, reservationID string) ([]*entity.Participant, error)
	FindByEventAndEmails(ctx context.Context, eventID string, emails []string) ([]*entity.Participant, error)
}
