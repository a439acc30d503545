package app

import (
	"github.com/ankitsharma97/leaveManagement/internal/audit"
	"github.com/ankitsharma97/leaveManagement/internal/leave"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"gorm.io/gorm"
)

/// migrate brings the schema up: model tables first, then the raw-SQL
// pieces gorm does not own (the outbox table and the cascade from
// transitions to their request).
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&user.User{},
		&leave.LeaveRequest{},
		&audit.Transition{},
	); err != nil {
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id UUID NOT NULL,
			event_type TEXT NOT NULL,
			topic TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,

		// Deleting a request takes its transition trail with it; the
		// trail has no meaning without its subject.
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'fk_leave_transitions_request_cascade'
			) THEN
				ALTER TABLE leave_transitions
					ADD CONSTRAINT fk_leave_transitions_request_cascade
					FOREIGN KEY (leave_request_id) REFERENCES leave_requests (id)
					ON DELETE CASCADE;
			END IF;
		END
		$$`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
