package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evreg/registration-service/internal/entity"
)

// ParticipantInput is the registration payload for one person. Boolean flags
// are pointers so a missing field is distinguishable from an explicit false.
type ParticipantInput struct {
	Email            string                  `json:"email"`
	SecondaryEmail   string                  `json:"secondary_email,omitempty"`
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Phone            string                  `json:"phone,omitempty"`
	DateOfBirth      string                  `json:"date_of_birth,omitempty"`
	MedicalInfo      string                  `json:"medical_info,omitempty"`
	EmergencyContact entity.EmergencyContact `json:"emergency_contact,omitempty"`
	WaiverAccepted   *bool                   `json:"waiver_accepted"`
	NewsletterOptIn  *bool                   `json:"newsletter_opt_in"`
	Role             string                  `json:"role,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateParticipantInput checks the required fields and formats of a single
// participant payload. Field names in the returned details use the JSON keys.
func validateParticipantInput(input *ParticipantInput) map[string]string {
	problems := make(map[string]string)

	if input == nil {
		problems["participant"] = "participant payload is required"
		return problems
	}

	switch {
	case strings.TrimSpace(input.Email) == "":
		problems["email"] = "email is required"
	case !isValidEmail(input.Email):
		problems["email"] = "email format is invalid"
	}

	if strings.TrimSpace(input.FirstName) == "" {
		problems["first_name"] = "first name is required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		problems["last_name"] = "last name is required"
	}

	switch {
	case input.WaiverAccepted == nil:
		problems["waiver_accepted"] = "waiver acceptance is required"
	case !*input.WaiverAccepted:
		problems["waiver_accepted"] = "waiver must be accepted"
	}

	if input.NewsletterOptIn == nil {
		problems["newsletter_opt_in"] = "newsletter preference is required"
	}

	if input.SecondaryEmail != "" && !isValidEmail(input.SecondaryEmail) {
		problems["secondary_email"] = "secondary email format is invalid"
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

// validateIndividualPayload validates a single-participant registration.
func validateIndividualPayload(input *ParticipantInput) error {
	if problems := validateParticipantInput(input); problems != nil {
		return entity.NewValidation("participant payload is invalid", map[string]interface{}{
			"fields": problems,
		})
	}
	return nil
}

// validateTeamPayload validates every member and rejects the whole batch if
// any entry fails. In-list duplicate emails are rejected before any store
// call is made.
func validateTeamPayload(inputs []*ParticipantInput) error {
	if len(inputs) == 0 {
		return entity.NewValidation("team registration requires at least one participant", nil)
	}

	memberProblems := make(map[string]interface{})
	for i, input := range inputs {
		if problems := validateParticipantInput(input); problems != nil {
			memberProblems[fmt.Sprintf("participants[%d]", i)] = problems
		}
	}
	if len(memberProblems) > 0 {
		return entity.NewValidation("one or more team members are invalid", memberProblems)
	}

	if duplicates := findDuplicateEmails(inputs); len(duplicates) > 0 {
		return entity.NewConflict("duplicate emails within the submitted team", map[string]interface{}{
			"duplicates": duplicates,
		})
	}
	return nil
}

// findDuplicateEmails returns the lowercase emails that appear more than once
// in the submitted list, compared case-insensitively.
func findDuplicateEmails(inputs []*ParticipantInput) []string {
	seen := make(map[string]bool, len(inputs))
	var duplicates []string
	for _, input := range inputs {
		email := normalizeEmail(input.Email)
		if email == "" {
			continue
		}
		if seen[email] && !containsString(duplicates, email) {
			duplicates = append(duplicates, email)
		}
		seen[email] = true
	}
	return duplicates
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
