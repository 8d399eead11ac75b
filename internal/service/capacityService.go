package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/evreg/registration-service/internal/database/postgres"
	"github.com/evreg/registration-service/internal/entity"
)

// CapacityResult carries the arithmetic behind a capacity decision.
type CapacityResult struct {
	Valid               bool `json:"valid"`
	MaxParticipants     int  `json:"max_participants"`
	CurrentParticipants int  `json:"current_participants"`
	Requested           int  `json:"requested"`
	Available           int  `json:"available"`
}

type capacityService struct {
	eventRepo repository.EventRepository
	now       func() time.Time
}

func NewCapacityService(eventRepo repository.EventRepository) CapacityService {
	return &capacityService{eventRepo: eventRepo, now: time.Now}
}

// ValidateCapacity checks whether an event can take the requested number of
// additional participants. Filling the event exactly to capacity is valid.
func (s *capacityService) ValidateCapacity(ctx context.Context, eventID string, requested int) (*CapacityResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if errors.Is(err, entity.ErrEventNotFound) {
		return nil, entity.NewNotFound(fmt.Sprintf("event %s not found", eventID), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event for capacity check: %w", err)
	}

	result := &CapacityResult{
		MaxParticipants:     event.MaxParticipants,
		CurrentParticipants: event.CurrentParticipants,
		Requested:           requested,
		Available:           event.AvailableSpots(),
	}
	result.Valid = requested > 0 && requested <= result.Available
	return result, nil
}

func (s *capacityService) EnsureIndividualCapacity(ctx context.Context, eventID string) error {
	result, err := s.ValidateCapacity(ctx, eventID, 1)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return entity.NewConflict("event has no available spots", capacityDetails(result, nil))
}

func (s *capacityService) EnsureTeamCapacity(ctx context.Context, eventID string, teamSize int) error {
	result, err := s.ValidateCapacity(ctx, eventID, teamSize)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return entity.NewConflict(
		fmt.Sprintf("event cannot accommodate a team of %d", teamSize),
		capacityDetails(result, map[string]interface{}{"teamSize": teamSize}),
	)
}

func capacityDetails(result *CapacityResult, extra map[string]interface{}) map[string]interface{} {
	details := map[string]interface{}{
		"max":       result.MaxParticipants,
		"current":   result.CurrentParticipants,
		"requested": result.Requested,
		"available": result.Available,
	}
	for k, v := range extra {
		details[k] = v
	}
	return details
}

// IsEventAvailableForRegistration combines the enabled flag with the deadline
// check. A deadline exactly equal to now still counts as open.
func (s *capacityService) IsEventAvailableForRegistration(ctx context.Context, eventID string) (bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if errors.Is(err, entity.ErrEventNotFound) {
		return false, entity.NewNotFound(fmt.Sprintf("event %s not found", eventID), err)
	}
	if err != nil {
		return false, fmt.Errorf("failed to load event for availability check: %w", err)
	}
	return event.IsOpenForRegistration(s.now()), nil
}
