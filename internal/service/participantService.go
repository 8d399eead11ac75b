package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	repository "github.com/evreg/registration-service/internal/database/postgres"
	"github.com/evreg/registration-service/internal/entity"
)

// ParticipantListing is the organizer-facing flat view of an event's
// participants plus an aggregate summary.
type ParticipantListing struct {
	EventID      string                               `json:"event_id"`
	Participants []entity.ParticipantWithRegistration `json:"participants"`
	Summary      entity.ParticipantSummary            `json:"summary"`
}

type participantService struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	participantRepo  repository.ParticipantRepository
}

func NewParticipantService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	participantRepo repository.ParticipantRepository,
) ParticipantService {
	return &participantService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		participantRepo:  participantRepo,
	}
}

// authorizeOrganizer loads the event and verifies the requester created it.
func (s *participantService) authorizeOrganizer(ctx context.Context, eventID, organizerID string) (*entity.Event, error) {
	if !isValidID(eventID) {
		return nil, entity.NewBadRequest(fmt.Sprintf("event id %q is not a valid identifier", eventID))
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if errors.Is(err, entity.ErrEventNotFound) {
		return nil, entity.NewNotFound(fmt.Sprintf("event %s not found", eventID), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if event.CreatorID != organizerID {
		return nil, entity.NewForbidden("only the event creator can manage its participants")
	}
	return event, nil
}

func (s *participantService) ListEventParticipants(ctx context.Context, eventID, organizerID string) (*ParticipantListing, error) {
	event, err := s.authorizeOrganizer(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	registrations := s.fetchRegistrations(ctx, participants)

	merged := make([]entity.ParticipantWithRegistration, len(participants))
	for i, p := range participants {
		merged[i] = entity.ParticipantWithRegistration{Participant: *p}
		if registration, ok := registrations[p.ReservationID]; ok {
			merged[i].RegistrationType = registration.Type
			merged[i].PaymentStatus = registration.PaymentStatus
			merged[i].TotalFee = registration.TotalFee
			merged[i].TotalParticipants = registration.TotalParticipants
		} else {
			// Tolerate a failed registration lookup: default the merged
			// fields and keep the participant in the listing.
			merged[i].RegistrationType = entity.RegistrationTypeIndividual
			merged[i].TotalParticipants = 1
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].ReservationID != merged[j].ReservationID {
			return merged[i].ReservationID < merged[j].ReservationID
		}
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})

	return &ParticipantListing{
		EventID:      event.ID,
		Participants: merged,
		Summary:      summarize(merged),
	}, nil
}

// fetchRegistrations loads each distinct reservation concurrently. A failed
// lookup is logged as a warning and its participants fall back to defaults.
func (s *participantService) fetchRegistrations(ctx context.Context, participants []*entity.Participant) map[string]*entity.Registration {
	distinct := make(map[string]bool)
	for _, p := range participants {
		distinct[p.ReservationID] = true
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	registrations := make(map[string]*entity.Registration, len(distinct))

	for reservationID := range distinct {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			registration, err := s.registrationRepo.GetByID(ctx, id)
			if err != nil {
				logrus.WithField("reservation_id", id).
					Warnf("Failed to fetch registration for participant listing: %v", err)
				return
			}
			mu.Lock()
			registrations[id] = registration
			mu.Unlock()
		}(reservationID)
	}
	wg.Wait()

	return registrations
}

// summarize counts participants and registrations, deduplicated per
// reservation.
func summarize(participants []entity.ParticipantWithRegistration) entity.ParticipantSummary {
	summary := entity.ParticipantSummary{TotalParticipants: len(participants)}

	counted := make(map[string]bool)
	for _, p := range participants {
		if counted[p.ReservationID] {
			continue
		}
		counted[p.ReservationID] = true

		summary.TotalRegistrations++
		if p.PaymentStatus {
			summary.PaidRegistrations++
		} else {
			summary.UnpaidRegistrations++
		}
		if p.RegistrationType == entity.RegistrationTypeTeam {
			summary.TeamRegistrations++
		} else {
			summary.IndividualRegistrations++
		}
	}
	return summary
}

func (s *participantService) ListGroupedByReservation(ctx context.Context, eventID, organizerID string) ([]*entity.ReservationGroup, error) {
	listing, err := s.ListEventParticipants(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}

	var groups []*entity.ReservationGroup
	index := make(map[string]*entity.ReservationGroup)
	for _, p := range listing.Participants {
		group, ok := index[p.ReservationID]
		if !ok {
			group = &entity.ReservationGroup{
				ReservationID: p.ReservationID,
				Type:          p.RegistrationType,
				PaymentStatus: p.PaymentStatus,
				TotalFee:      p.TotalFee,
			}
			index[p.ReservationID] = group
			groups = append(groups, group)
		}
		group.Participants = append(group.Participants, p)
	}
	return groups, nil
}

// DeleteReservation removes a reservation with all of its participants and
// decrements the event counter in a single transaction.
func (s *participantService) DeleteReservation(ctx context.Context, reservationID, organizerID string) error {
	if !isValidID(reservationID) {
		return entity.NewBadRequest(fmt.Sprintf("reservation id %q is not a valid identifier", reservationID))
	}

	registration, err := s.registrationRepo.GetByID(ctx, reservationID)
	if errors.Is(err, entity.ErrRegistrationNotFound) {
		return entity.NewNotFound(fmt.Sprintf("registration %s not found", reservationID), err)
	}
	if err != nil {
		return fmt.Errorf("failed to load registration: %w", err)
	}

	if _, err := s.authorizeOrganizer(ctx, registration.EventID, organizerID); err != nil {
		return err
	}

	participants, err := s.participantRepo.GetByReservationID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("failed to list reservation participants: %w", err)
	}

	if err := s.registrationRepo.DeleteReservation(ctx, reservationID, registration.EventID, len(participants)); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"event_id":       registration.EventID,
		"participants":   len(participants),
	}).Info("Reservation deleted")
	return nil
}
