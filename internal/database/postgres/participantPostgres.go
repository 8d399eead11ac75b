package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/evreg/registration-service/internal/entity"
)

type participantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

const participantColumns = `id, reservation_id, event_id, email, secondary_email, first_name, last_name,
		phone, date_of_birth, medical_info, emergency_name, emergency_phone,
		waiver_accepted, newsletter_opt_in, role, created_at`

func scanParticipant(row interface{ Scan(...interface{}) error }) (*entity.Participant, error) {
	var p entity.Participant
	err := row.Scan(
		&p.ID,
		&p.ReservationID,
		&p.EventID,
		&p.Email,
		&p.SecondaryEmail,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.DateOfBirth,
		&p.MedicalInfo,
		&p.EmergencyContact.Name,
		&p.EmergencyContact.Phone,
		&p.WaiverAccepted,
		&p.NewsletterOptIn,
		&p.Role,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateBatch inserts all participants of a reservation with one statement.
func (r *participantRepository) CreateBatch(ctx context.Context, participants []*entity.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(participants))
	valueArgs := make([]interface{}, 0, len(participants)*16)
	for i, p := range participants {
		base := i * 16
		placeholders := make([]string, 16)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ", ")+")")
		valueArgs = append(valueArgs,
			p.ID,
			p.ReservationID,
			p.EventID,
			p.Email,
			p.SecondaryEmail,
			p.FirstName,
			p.LastName,
			p.Phone,
			p.DateOfBirth,
			p.MedicalInfo,
			p.EmergencyContact.Name,
			p.EmergencyContact.Phone,
			p.WaiverAccepted,
			p.NewsletterOptIn,
			p.Role,
			p.CreatedAt,
		)
	}

	query := `INSERT INTO participants (` + participantColumns + `) VALUES ` + strings.Join(valueStrings, ", ")

	if _, err := r.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to create participants: %w", err)
	}
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	participant, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return participant, nil
}

func (r *participantRepository) GetByEventID(ctx context.Context, eventID string) ([]*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 ORDER BY reservation_id, created_at`
	return r.queryParticipants(ctx, query, eventID)
}

func (r *participantRepository) GetByReservationID(ctx context.Context, reservationID string) ([]*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE reservation_id = $1 ORDER BY created_at`
	return r.queryParticipants(ctx, query, reservationID)
}

// FindByEventAndEmails looks up existing participants of an event by
// lowercased email. Emails are stored lowercase, so the comparison is exact.
func (r *participantRepository) FindByEventAndEmails(ctx context.Context, eventID string, emails []string) ([]*entity.Participant, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND email = ANY($2)`
	return r.queryParticipants(ctx, query, eventID, pq.Array(emails))
}

func (r *participantRepository) queryParticipants(ctx context.Context, query string, args ...interface{}) ([]*entity.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []*entity.Participant
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, participant)
	}
	return participants, rows.Err()
}
