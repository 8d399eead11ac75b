package service

import (
	"context"
	"fmt"

	repository "github.com/evreg/registration-service/internal/database/postgres"
	"github.com/evreg/registration-service/internal/entity"
)

// EmailValidationResult reports which submitted emails collide with existing
// participants of an event, or with each other.
type EmailValidationResult struct {
	Valid      bool                  `json:"valid"`
	Duplicates []string              `json:"duplicates,omitempty"`
	Conflicts  []*entity.Participant `json:"conflicts,omitempty"`
}

type emailValidationService struct {
	participantRepo repository.ParticipantRepository
}

func NewEmailValidationService(participantRepo repository.ParticipantRepository) EmailValidationService {
	return &emailValidationService{participantRepo: participantRepo}
}

func (s *emailValidationService) ValidateEmail(ctx context.Context, eventID, email string) (*EmailValidationResult, error) {
	return s.ValidateMultipleEmails(ctx, eventID, []string{email})
}

// ValidateMultipleEmails first detects case-insensitive duplicates within the
// submitted list. If any are found the store is never queried; otherwise each
// email is checked against the event's existing participants.
func (s *emailValidationService) ValidateMultipleEmails(ctx context.Context, eventID string, emails []string) (*EmailValidationResult, error) {
	normalized := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	var inListDuplicates []string

	for _, email := range emails {
		lower := normalizeEmail(email)
		if seen[lower] {
			if !containsString(inListDuplicates, lower) {
				inListDuplicates = append(inListDuplicates, lower)
			}
			continue
		}
		seen[lower] = true
		normalized = append(normalized, lower)
	}

	if len(inListDuplicates) > 0 {
		return &EmailValidationResult{Valid: false, Duplicates: inListDuplicates}, nil
	}

	conflicts, err := s.participantRepo.FindByEventAndEmails(ctx, eventID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing participant emails: %w", err)
	}
	if len(conflicts) == 0 {
		return &EmailValidationResult{Valid: true}, nil
	}

	duplicates := make([]string, 0, len(conflicts))
	for _, conflict := range conflicts {
		if !containsString(duplicates, conflict.Email) {
			duplicates = append(duplicates, conflict.Email)
		}
	}
	return &EmailValidationResult{Valid: false, Duplicates: duplicates, Conflicts: conflicts}, nil
}

func (s *emailValidationService) CheckIndividualEmail(ctx context.Context, eventID, email string) error {
	result, err := s.ValidateEmail(ctx, eventID, email)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return entity.NewConflict(
		fmt.Sprintf("email %s is already registered for this event", normalizeEmail(email)),
		map[string]interface{}{
			"email":     normalizeEmail(email),
			"eventId":   eventID,
			"conflicts": result.Conflicts,
		},
	)
}

func (s *emailValidationService) CheckTeamEmails(ctx context.Context, eventID string, emails []string) error {
	result, err := s.ValidateMultipleEmails(ctx, eventID, emails)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return entity.NewConflict(
		"one or more team member emails are already registered for this event",
		map[string]interface{}{
			"emails":    result.Duplicates,
			"eventId":   eventID,
			"conflicts": result.Conflicts,
		},
	)
}
