package repository

import (
	"context"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoteRepository handles database operations for notes
type NoteRepository struct {
	db *pgxpool.Pool
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create creates a new note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, application_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		note.ID,
		note.ApplicationID,
		note.UserID,
		note.Content,
	).Scan(&note.CreatedAt)

	return err
}

// ListByApplication retrieves all notes for an application, newest-first
func (r *NoteRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Note, error) {
	query := `
		SELECT id, application_id, user_id, content, created_at
		FROM notes
		WHERE application_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		err := rows.Scan(
			&note.ID,
			&note.ApplicationID,
			&note.UserID,
			&note.Content,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Delete deletes a note, joined through its application's owner
func (r *NoteRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM notes n
		USING applications a
		WHERE n.id = $1 AND n.application_id = a.id AND a.user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
