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

// RegisteredParticipant is the participant slice of a registration result.
type RegisteredParticipant struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

// RegistrationResult is returned to the caller after a successful
// registration. PaymentStatus is always false at creation.
type RegistrationResult struct {
	ReservationID     string                  `json:"reservation_id"`
	EventID           string                  `json:"event_id"`
	Participants      []RegisteredParticipant `json:"participants"`
	PaymentStatus     bool                    `json:"payment_status"`
	RegistrationFee   float64                 `json:"registration_fee"`
	TotalParticipants int                     `json:"total_participants"`
	RegisteredAt      time.Time               `json:"registered_at"`
}

type registrationService struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	participantRepo  repository.ParticipantRepository
	emailService     EmailValidationService
	capacityService  CapacityService
	publisher        NotificationPublisher
	now              func() time.Time
}

func NewRegistrationService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	participantRepo repository.ParticipantRepository,
	emailService EmailValidationService,
	capacityService CapacityService,
	publisher NotificationPublisher,
) RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		participantRepo:  participantRepo,
		emailService:     emailService,
		capacityService:  capacityService,
		publisher:        publisher,
		now:              time.Now,
	}
}

func (s *registrationService) RegisterIndividual(ctx context.Context, eventID string, input *ParticipantInput) (*RegistrationResult, error) {
	event, err := s.runChecks(ctx, eventID, entity.RegistrationTypeIndividual, []*ParticipantInput{input})
	if err != nil {
		return nil, err
	}
	return s.createRegistration(ctx, event, entity.RegistrationTypeIndividual, []*ParticipantInput{input})
}

func (s *registrationService) RegisterTeam(ctx context.Context, eventID string, inputs []*ParticipantInput) (*RegistrationResult, error) {
	event, err := s.runChecks(ctx, eventID, entity.RegistrationTypeTeam, inputs)
	if err != nil {
		return nil, err
	}
	return s.createRegistration(ctx, event, entity.RegistrationTypeTeam, inputs)
}

func (s *registrationService) ValidateOnly(ctx context.Context, eventID string, regType entity.RegistrationType, inputs []*ParticipantInput) error {
	_, err := s.runChecks(ctx, eventID, regType, inputs)
	return err
}

// runChecks performs the read-only rule chain: identifier format, payload
// shape, event state, email uniqueness, capacity. No side effects happen
// before all of them pass.
func (s *registrationService) runChecks(ctx context.Context, eventID string, regType entity.RegistrationType, inputs []*ParticipantInput) (*entity.Event, error) {
	if !isValidID(eventID) {
		return nil, entity.NewBadRequest(fmt.Sprintf("event id %q is not a valid identifier", eventID))
	}

	if regType == entity.RegistrationTypeTeam {
		if err := validateTeamPayload(inputs); err != nil {
			return nil, err
		}
	} else {
		if len(inputs) != 1 {
			return nil, entity.NewValidation("individual registration takes exactly one participant", nil)
		}
		if err := validateIndividualPayload(inputs[0]); err != nil {
			return nil, err
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if errors.Is(err, entity.ErrEventNotFound) {
		return nil, entity.NewNotFound(fmt.Sprintf("event %s not found", eventID), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if !event.Enabled {
		return nil, entity.NewConflict("event is not open for registration", map[string]interface{}{
			"eventId": eventID,
			"reason":  "disabled",
		})
	}
	if s.now().After(event.RegistrationDeadline) {
		return nil, entity.NewConflict("registration deadline has passed", map[string]interface{}{
			"eventId":  eventID,
			"deadline": event.RegistrationDeadline,
		})
	}
	if event.RegistrationType != regType {
		return nil, entity.NewConflict(
			fmt.Sprintf("event accepts %s registrations only", event.RegistrationType),
			map[string]interface{}{
				"eventId":   eventID,
				"eventType": event.RegistrationType,
				"requested": regType,
			},
		)
	}

	emails := make([]string, len(inputs))
	for i, input := range inputs {
		emails[i] = input.Email
	}
	if regType == entity.RegistrationTypeTeam {
		if err := s.emailService.CheckTeamEmails(ctx, eventID, emails); err != nil {
			return nil, err
		}
		if err := s.capacityService.EnsureTeamCapacity(ctx, eventID, len(inputs)); err != nil {
			return nil, err
		}
	} else {
		if err := s.emailService.CheckIndividualEmail(ctx, eventID, emails[0]); err != nil {
			return nil, err
		}
		if err := s.capacityService.EnsureIndividualCapacity(ctx, eventID); err != nil {
			return nil, err
		}
	}

	return event, nil
}

// createRegistration writes the registration record, its participants and the
// counter increment as independent writes. A failure after the first write is
// reported as a named error without compensating the earlier writes; the
// capacity check above is likewise not re-validated here, so concurrent
// registrations can race past it.
func (s *registrationService) createRegistration(ctx context.Context, event *entity.Event, regType entity.RegistrationType, inputs []*ParticipantInput) (*RegistrationResult, error) {
	createdAt := s.now()
	reservationID := newID(createdAt)

	registration := &entity.Registration{
		ID:                reservationID,
		EventID:           event.ID,
		Type:              regType,
		TotalParticipants: len(inputs),
		TotalFee:          event.RegistrationFee * float64(len(inputs)),
		PaymentStatus:     false,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}

	participants := make([]*entity.Participant, len(inputs))
	for i, input := range inputs {
		participants[i] = &entity.Participant{
			ID:               newID(createdAt),
			ReservationID:    reservationID,
			EventID:          event.ID,
			Email:            normalizeEmail(input.Email),
			SecondaryEmail:   normalizeEmail(input.SecondaryEmail),
			FirstName:        input.FirstName,
			LastName:         input.LastName,
			Phone:            input.Phone,
			DateOfBirth:      input.DateOfBirth,
			MedicalInfo:      input.MedicalInfo,
			EmergencyContact: input.EmergencyContact,
			WaiverAccepted:   *input.WaiverAccepted,
			NewsletterOptIn:  input.NewsletterOptIn != nil && *input.NewsletterOptIn,
			Role:             input.Role,
			CreatedAt:        createdAt,
		}
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		return nil, fmt.Errorf("failed to create registration entities: %w", err)
	}
	if err := s.participantRepo.CreateBatch(ctx, participants); err != nil {
		return nil, fmt.Errorf("failed to create registration entities: %w", err)
	}

	if err := s.eventRepo.IncrementParticipants(ctx, event.ID, len(participants)); err != nil {
		return nil, fmt.Errorf("failed to update event participant count: %w", err)
	}

	result := &RegistrationResult{
		ReservationID:     reservationID,
		EventID:           event.ID,
		Participants:      make([]RegisteredParticipant, len(participants)),
		PaymentStatus:     false,
		RegistrationFee:   registration.TotalFee,
		TotalParticipants: len(participants),
		RegisteredAt:      createdAt,
	}
	for i, p := range participants {
		result.Participants[i] = RegisteredParticipant{
			ID:        p.ID,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Role:      p.Role,
		}
	}

	s.publishConfirmation(ctx, event, registration, participants)

	return result, nil
}

// publishConfirmation enqueues the confirmation notification. Failures are
// logged and swallowed; they never affect the registration result.
func (s *registrationService) publishConfirmation(ctx context.Context, event *entity.Event, registration *entity.Registration, participants []*entity.Participant) {
	if s.publisher == nil {
		return
	}

	template := entity.TemplateRegistrationConfirmation
	var teamMembers []string
	if registration.Type == entity.RegistrationTypeTeam {
		template = entity.TemplateTeamRegistrationConfirmation
		teamMembers = make([]string, len(participants))
		for i, p := range participants {
			teamMembers[i] = p.FirstName + " " + p.LastName
		}
	}

	message := &entity.NotificationMessage{
		ID:            uuid.NewString(),
		Template:      template,
		Recipient:     participants[0].Email,
		RecipientName: participants[0].FirstName + " " + participants[0].LastName,
		EventID:       event.ID,
		EventTitle:    event.Title,
		ReservationID: registration.ID,
		Participants:  registration.TotalParticipants,
		TotalFee:      registration.TotalFee,
		TeamMembers:   teamMembers,
		EnqueuedAt:    s.now(),
	}

	if err := s.publisher.Publish(ctx, message); err != nil {
		logrus.WithFields(logrus.Fields{
			"reservation_id": registration.ID,
			"event_id":       event.ID,
		}).Warnf("Failed to enqueue registration notification: %v", err)
	}
}
