package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/evreg/registration-service/internal/database/postgres"
	"github.com/evreg/registration-service/internal/entity"
)

// CreateEventRequest is the organizer payload for a new event.
type CreateEventRequest struct {
	Title                string    `json:"title" binding:"required,min=1,max=255"`
	Description          string    `json:"description" binding:"max=2000"`
	MaxParticipants      int       `json:"max_participants" binding:"required,min=1,max=100000"`
	RegistrationDeadline time.Time `json:"registration_deadline" binding:"required"`
	RegistrationFee      float64   `json:"registration_fee" binding:"min=0"`
	RegistrationType     string    `json:"registration_type" binding:"required,oneof=individual team"`
	Enabled              *bool     `json:"enabled"`
}

// UpdateEventRequest carries optional field updates.
type UpdateEventRequest struct {
	Title                *string    `json:"title,omitempty"`
	Description          *string    `json:"description,omitempty"`
	MaxParticipants      *int       `json:"max_participants,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	RegistrationFee      *float64   `json:"registration_fee,omitempty"`
}

type eventService struct {
	eventRepo repository.EventRepository
	now       func() time.Time
}

func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo, now: time.Now}
}

func (s *eventService) CreateEvent(ctx context.Context, creatorID string, req *CreateEventRequest) (*entity.Event, error) {
	if !isValidID(creatorID) {
		return nil, entity.NewBadRequest(fmt.Sprintf("creator id %q is not a valid identifier", creatorID))
	}
	if req.RegistrationDeadline.Before(s.now()) {
		return nil, entity.NewValidation("registration deadline must be in the future", map[string]interface{}{
			"registration_deadline": req.RegistrationDeadline,
		})
	}

	createdAt := s.now()
	event := &entity.Event{
		ID:                   newID(createdAt),
		CreatorID:            creatorID,
		Title:                req.Title,
		Description:          req.Description,
		MaxParticipants:      req.MaxParticipants,
		CurrentParticipants:  0,
		Enabled:              req.Enabled == nil || *req.Enabled,
		RegistrationDeadline: req.RegistrationDeadline,
		RegistrationFee:      req.RegistrationFee,
		RegistrationType:     entity.RegistrationType(req.RegistrationType),
		CreatedAt:            createdAt,
		UpdatedAt:            createdAt,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	if !isValidID(id) {
		return nil, entity.NewBadRequest(fmt.Sprintf("event id %q is not a valid identifier", id))
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if errors.Is(err, entity.ErrEventNotFound) {
		return nil, entity.NewNotFound(fmt.Sprintf("event %s not found", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetEventsByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events by creator: %w", err)
	}
	return events, nil
}

// loadOwnedEvent fetches an event and verifies the organizer created it.
func (s *eventService) loadOwnedEvent(ctx context.Context, id, organizerID string) (*entity.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != organizerID {
		return nil, entity.NewForbidden("only the event creator can modify this event")
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id, organizerID string, req *UpdateEventRequest) (*entity.Event, error) {
	event, err := s.loadOwnedEvent(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < event.CurrentParticipants {
			return nil, entity.NewConflict(
				fmt.Sprintf("cannot reduce capacity below current participant count (%d)", event.CurrentParticipants),
				map[string]interface{}{
					"current":   event.CurrentParticipants,
					"requested": *req.MaxParticipants,
				},
			)
		}
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.RegistrationDeadline != nil {
		if req.RegistrationDeadline.Before(s.now()) {
			return nil, entity.NewValidation("registration deadline must be in the future", nil)
		}
		event.RegistrationDeadline = *req.RegistrationDeadline
	}
	if req.RegistrationFee != nil {
		if *req.RegistrationFee < 0 {
			return nil, entity.NewValidation("registration fee cannot be negative", nil)
		}
		event.RegistrationFee = *req.RegistrationFee
	}

	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *eventService) SetEventEnabled(ctx context.Context, id, organizerID string, enabled bool) error {
	if _, err := s.loadOwnedEvent(ctx, id, organizerID); err != nil {
		return err
	}
	if err := s.eventRepo.SetEnabled(ctx, id, enabled); err != nil {
		return fmt.Errorf("failed to set event enabled flag: %w", err)
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id, organizerID string) error {
	if _, err := s.loadOwnedEvent(ctx, id, organizerID); err != nil {
		return err
	}

	err := s.eventRepo.Delete(ctx, id)
	if errors.Is(err, entity.ErrEventHasBookings) {
		return entity.NewConflict("cannot delete an event with existing registrations", map[string]interface{}{
			"eventId": id,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
