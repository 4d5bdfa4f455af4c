package repository

import (
	"context"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StageRepository handles database operations for interview stages
type StageRepository struct {
	db *pgxpool.Pool
}

// NewStageRepository creates a new stage repository
func NewStageRepository(db *pgxpool.Pool) *StageRepository {
	return &StageRepository{db: db}
}

// Create creates a new stage
func (r *StageRepository) Create(ctx context.Context, stage *models.Stage) error {
	query := `
		INSERT INTO stages (id, application_id, type, scheduled_at, outcome, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		stage.ID,
		stage.ApplicationID,
		stage.Type,
		stage.ScheduledAt,
		stage.Outcome,
		stage.Notes,
	).Scan(&stage.CreatedAt)

	return err
}

// ListByApplication retrieves all stages for an application, newest-first
func (r *StageRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Stage, error) {
	query := `
		SELECT id, application_id, type, scheduled_at, outcome, notes, created_at
		FROM stages
		WHERE application_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []*models.Stage
	for rows.Next() {
		stage := &models.Stage{}
		err := rows.Scan(
			&stage.ID,
			&stage.ApplicationID,
			&stage.Type,
			&stage.ScheduledAt,
			&stage.Outcome,
			&stage.Notes,
			&stage.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	return stages, rows.Err()
}

// Delete deletes a stage, joined through its application's owner
func (r *StageRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM stages s
		USING applications a
		WHERE s.id = $1 AND s.application_id = a.id AND a.user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
