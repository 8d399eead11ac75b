package postgres

import (
	"database/sql"
	"fmt"

	"github.com/evreg/registration-service/config"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id CHAR(26) PRIMARY KEY,
			creator_id CHAR(26) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			max_participants INTEGER NOT NULL,
			current_participants INTEGER NOT NULL DEFAULT 0,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			registration_deadline TIMESTAMPTZ NOT NULL,
			registration_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			registration_type VARCHAR(20) NOT NULL DEFAULT 'individual',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS registrations (
			id CHAR(26) PRIMARY KEY,
			event_id CHAR(26) NOT NULL REFERENCES events(id),
			type VARCHAR(20) NOT NULL,
			total_participants INTEGER NOT NULL,
			total_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			payment_status BOOLEAN NOT NULL DEFAULT FALSE,
			payment_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS participants (
			id CHAR(26) PRIMARY KEY,
			reservation_id CHAR(26) NOT NULL REFERENCES registrations(id),
			event_id CHAR(26) NOT NULL REFERENCES events(id),
			email VARCHAR(255) NOT NULL,
			secondary_email VARCHAR(255) NOT NULL DEFAULT '',
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			date_of_birth VARCHAR(10) NOT NULL DEFAULT '',
			medical_info TEXT NOT NULL DEFAULT '',
			emergency_name VARCHAR(100) NOT NULL DEFAULT '',
			emergency_phone VARCHAR(50) NOT NULL DEFAULT '',
			waiver_accepted BOOLEAN NOT NULL,
			newsletter_opt_in BOOLEAN NOT NULL DEFAULT FALSE,
			role VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Lookup indexes mirroring the access paths: by event, by reservation,
		// by email per event, by payment status.
		`CREATE INDEX IF NOT EXISTS idx_participants_event_id ON participants(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_reservation_id ON participants(reservation_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_event_email ON participants(event_id, email)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_event_id ON registrations(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_payment ON registrations(event_id, payment_status)`,
		`CREATE INDEX IF NOT EXISTS idx_events_creator_id ON events(creator_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
