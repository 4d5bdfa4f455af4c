package repository

import (
	"context"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository handles database operations for contacts
type ContactRepository struct {
	db *pgxpool.Pool
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create creates a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, application_id, name, email, role, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		contact.ID,
		contact.ApplicationID,
		contact.Name,
		contact.Email,
		contact.Role,
		contact.Notes,
	).Scan(&contact.CreatedAt)

	return err
}

// ListByApplication retrieves all contacts for an application
func (r *ContactRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT id, application_id, name, email, role, notes, created_at
		FROM contacts
		WHERE application_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.ApplicationID,
			&contact.Name,
			&contact.Email,
			&contact.Role,
			&contact.Notes,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

// Delete deletes a contact, joined through its application's owner
func (r *ContactRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM contacts c
		USING applications a
		WHERE c.id = $1 AND c.application_id = a.id AND a.user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
