package repository

import (
	"context"
	"time"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderRepository handles database operations for reminders
type ReminderRepository struct {
	db *pgxpool.Pool
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create creates a new reminder, unsent
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, application_id, due_at, message, sent)
		VALUES ($1, $2, $3, $4, FALSE)`

	_, err := r.db.Exec(
		ctx, query,
		reminder.ID,
		reminder.ApplicationID,
		reminder.DueAt,
		reminder.Message,
	)
	return err
}

// ListByApplication retrieves all reminders for an application, soonest-first
func (r *ReminderRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Reminder, error) {
	query := `
		SELECT id, application_id, due_at, message, sent
		FROM reminders
		WHERE application_id = $1
		ORDER BY due_at ASC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkDue flips sent on every unsent reminder of the user's applications
// whose due_at has passed, returning the swept reminders. A single
// statement, so each reminder is swept at most once.
func (r *ReminderRepository) MarkDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Reminder, error) {
	query := `
		UPDATE reminders rem
		SET sent = TRUE
		FROM applications a
		WHERE rem.application_id = a.id
			AND a.user_id = $1
			AND rem.sent = FALSE
			AND rem.due_at <= $2
		RETURNING rem.id, rem.application_id, rem.due_at, rem.message, rem.sent`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// Delete deletes a reminder, joined through its application's owner
func (r *ReminderRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM reminders rem
		USING applications a
		WHERE rem.id = $1 AND rem.application_id = a.id AND a.user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		err := rows.Scan(
			&reminder.ID,
			&reminder.ApplicationID,
			&reminder.DueAt,
			&reminder.Message,
			&reminder.Sent,
		)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}
