package migration

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the schema if it does not exist.
//
// The partial unique index on (user_id, day) is the second line of defense
// for the one-session-per-day invariant: the service layer serializes
// get-or-create per user, and a concurrent writer from another process hits
// a 23505 which the session repository reports as a CONFLICT.
func Run(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS healthcare_users (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			phone_number TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			otp INT NOT NULL DEFAULT 0,
			otp_generated_at TIMESTAMP,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			subscription_plan VARCHAR(20) NOT NULL,
			last_prompt_time TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES healthcare_users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			deletion_eligible_at TIMESTAMP NOT NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_chat_sessions_user_day
			ON chat_sessions (user_id, (created_at::date))
			WHERE NOT is_deleted`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id BIGSERIAL PRIMARY KEY,
			session_id BIGINT NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			is_user_message BOOLEAN NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_chat_messages_session_ts
			ON chat_messages (session_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS health_records (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES healthcare_users(id) ON DELETE CASCADE,
			age INT NOT NULL,
			height DOUBLE PRECISION NOT NULL,
			weight DOUBLE PRECISION NOT NULL,
			exercise_frequency TEXT NOT NULL DEFAULT '',
			family_history BOOLEAN NOT NULL DEFAULT FALSE,
			diet TEXT NOT NULL DEFAULT '',
			sugary_drink_consumption TEXT NOT NULL DEFAULT '',
			high_blood_pressure BOOLEAN NOT NULL DEFAULT FALSE,
			stress_level TEXT NOT NULL DEFAULT '',
			bmi DOUBLE PRECISION NOT NULL,
			prediction_result TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}
