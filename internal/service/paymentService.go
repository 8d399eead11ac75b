package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/evreg/registration-service/internal/database/postgres"
	"github.com/evreg/registration-service/internal/entity"
)

// PaymentStatus is the read model returned by the status getter.
type PaymentStatus struct {
	ReservationID string     `json:"reservation_id"`
	Paid          bool       `json:"paid"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	TotalFee      float64    `json:"total_fee"`
}

type paymentService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	participantRepo  repository.ParticipantRepository
	publisher        NotificationPublisher
	now              func() time.Time
}

func NewPaymentService(
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	participantRepo repository.ParticipantRepository,
	publisher NotificationPublisher,
) PaymentService {
	return &paymentService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		participantRepo:  participantRepo,
		publisher:        publisher,
		now:              time.Now,
	}
}

// SetPaymentStatus updates a registration's payment flag and timestamp. The
// payment date defaults to now when the caller does not supply one.
func (s *paymentService) SetPaymentStatus(ctx context.Context, reservationID string, paid bool, paymentDate *time.Time) (*entity.Registration, error) {
	if !isValidID(reservationID) {
		return nil, entity.NewBadRequest(fmt.Sprintf("reservation id %q is not a valid identifier", reservationID))
	}

	registration, err := s.registrationRepo.GetByID(ctx, reservationID)
	if errors.Is(err, entity.ErrRegistrationNotFound) {
		return nil, entity.NewNotFound(fmt.Sprintf("registration %s not found", reservationID), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	when := s.now()
	if paymentDate != nil {
		when = *paymentDate
	}

	if err := s.registrationRepo.UpdatePaymentStatus(ctx, reservationID, paid, when); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	registration.PaymentStatus = paid
	registration.PaymentDate = &when
	registration.UpdatedAt = when

	if paid {
		s.publishPaymentReceived(ctx, registration)
	}

	return registration, nil
}

func (s *paymentService) MarkPaid(ctx context.Context, reservationID string) (*entity.Registration, error) {
	return s.SetPaymentStatus(ctx, reservationID, true, nil)
}

func (s *paymentService) MarkUnpaid(ctx context.Context, reservationID string) (*entity.Registration, error) {
	return s.SetPaymentStatus(ctx, reservationID, false, nil)
}

// GetPaymentStatus suppresses a not-found lookup into a nil result so the
// caller can distinguish "no such registration" from infrastructure errors.
func (s *paymentService) GetPaymentStatus(ctx context.Context, reservationID string) (*PaymentStatus, error) {
	if !isValidID(reservationID) {
		return nil, entity.NewBadRequest(fmt.Sprintf("reservation id %q is not a valid identifier", reservationID))
	}

	registration, err := s.registrationRepo.GetByID(ctx, reservationID)
	if errors.Is(err, entity.ErrRegistrationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	return &PaymentStatus{
		ReservationID: registration.ID,
		Paid:          registration.PaymentStatus,
		PaymentDate:   registration.PaymentDate,
		TotalFee:      registration.TotalFee,
	}, nil
}

func (s *paymentService) publishPaymentReceived(ctx context.Context, registration *entity.Registration) {
	if s.publisher == nil {
		return
	}

	message := &entity.NotificationMessage{
		ID:            uuid.NewString(),
		Template:      entity.TemplatePaymentReceived,
		EventID:       registration.EventID,
		ReservationID: registration.ID,
		Participants:  registration.TotalParticipants,
		TotalFee:      registration.TotalFee,
		EnqueuedAt:    s.now(),
	}

	if event, err := s.eventRepo.GetByID(ctx, registration.EventID); err == nil {
		message.EventTitle = event.Title
	}
	if participants, err := s.participantRepo.GetByReservationID(ctx, registration.ID); err == nil && len(participants) > 0 {
		message.Recipient = participants[0].Email
		message.RecipientName = participants[0].FirstName + " " + participants[0].LastName
	}

	if err := s.publisher.Publish(ctx, message); err != nil {
		logrus.WithField("reservation_id", registration.ID).
			Warnf("Failed to enqueue payment notification: %v", err)
	}
}
