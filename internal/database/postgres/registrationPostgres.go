package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evreg/registration-service/internal/entity"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

const registrationColumns = `id, event_id, type, total_participants, total_fee,
		payment_status, payment_date, created_at, updated_at`

func scanRegistration(row interface{ Scan(...interface{}) error }) (*entity.Registration, error) {
	var registration entity.Registration
	var paymentDate sql.NullTime
	err := row.Scan(
		&registration.ID,
		&registration.EventID,
		&registration.Type,
		&registration.TotalParticipants,
		&registration.TotalFee,
		&registration.PaymentStatus,
		&paymentDate,
		&registration.CreatedAt,
		&registration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentDate.Valid {
		registration.PaymentDate = &paymentDate.Time
	}
	return &registration, nil
}

func (r *registrationRepository) Create(ctx context.Context, registration *entity.Registration) error {
	query := `
		INSERT INTO registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var paymentDate interface{}
	if registration.PaymentDate != nil {
		paymentDate = *registration.PaymentDate
	}

	_, err := r.db.ExecContext(ctx, query,
		registration.ID,
		registration.EventID,
		registration.Type,
		registration.TotalParticipants,
		registration.TotalFee,
		registration.PaymentStatus,
		paymentDate,
		registration.CreatedAt,
		registration.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	registration, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return registration, nil
}

func (r *registrationRepository) GetByEventID(ctx context.Context, eventID string) ([]*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY id`
	return r.queryRegistrations(ctx, query, eventID)
}

func (r *registrationRepository) GetByPaymentStatus(ctx context.Context, eventID string, paid bool) ([]*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND payment_status = $2 ORDER BY id`
	return r.queryRegistrations(ctx, query, eventID, paid)
}

func (r *registrationRepository) queryRegistrations(ctx context.Context, query string, args ...interface{}) ([]*entity.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	var registrations []*entity.Registration
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, registration)
	}
	return registrations, rows.Err()
}

func (r *registrationRepository) UpdatePaymentStatus(ctx context.Context, id string, paid bool, paymentDate time.Time) error {
	query := `
		UPDATE registrations
		SET payment_status = $1, payment_date = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, paid, paymentDate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return checkAffected(result, entity.ErrRegistrationNotFound)
}

// DeleteReservation removes a registration together with its participants and
// the event counter delta in a single transaction.
func (r *registrationRepository) DeleteReservation(ctx context.Context, reservationID, eventID string, participantCount int) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE reservation_id = $1`, reservationID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, reservationID)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	if err := checkAffected(result, entity.ErrRegistrationNotFound); err != nil {
		return err
	}

	counterQuery := `
		UPDATE events
		SET current_participants = current_participants - $1, updated_at = $2
		WHERE id = $3 AND current_participants >= $1
	`
	result, err = tx.ExecContext(ctx, counterQuery, participantCount, time.Now(), eventID)
	if err != nil {
		return fmt.Errorf("failed to decrement participant count: %w", err)
	}
	if err := checkAffected(result, entity.ErrEventNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
