package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evreg/registration-service/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, creator_id, title, description, max_participants, current_participants,
		enabled, registration_deadline, registration_fee, registration_type, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*entity.Event, error) {
	var event entity.Event
	err := row.Scan(
		&event.ID,
		&event.CreatorID,
		&event.Title,
		&event.Description,
		&event.MaxParticipants,
		&event.CurrentParticipants,
		&event.Enabled,
		&event.RegistrationDeadline,
		&event.RegistrationFee,
		&event.RegistrationType,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.CreatorID,
		event.Title,
		event.Description,
		event.MaxParticipants,
		event.CurrentParticipants,
		event.Enabled,
		event.RegistrationDeadline,
		event.RegistrationFee,
		event.RegistrationType,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY registration_deadline`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) GetByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE creator_id = $1 ORDER BY registration_deadline`
	return r.queryEvents(ctx, query, creatorID)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, max_participants = $3, enabled = $4,
			registration_deadline = $5, registration_fee = $6, registration_type = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.MaxParticipants,
		event.Enabled,
		event.RegistrationDeadline,
		event.RegistrationFee,
		event.RegistrationType,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	query := `UPDATE events SET enabled = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, enabled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set event enabled flag: %w", err)
	}
	return checkAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	var registrationCount int
	countQuery := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, id).Scan(&registrationCount); err != nil {
		return fmt.Errorf("failed to check event registrations: %w", err)
	}
	if registrationCount > 0 {
		return entity.ErrEventHasBookings
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffected(result, entity.ErrEventNotFound)
}

func (r *eventRepository) IncrementParticipants(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE events
		SET current_participants = current_participants + $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update participant count: %w", err)
	}
	return checkAffected(result, entity.ErrEventNotFound)
}

func checkAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
