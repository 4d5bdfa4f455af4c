package repository

import (
	"context"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepository handles database operations for tags and their
// assignment to applications via the application_tags join table
type TagRepository struct {
	db *pgxpool.Pool
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// Create creates a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (id, name) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, tag.ID, tag.Name)
	return err
}

// List retrieves all tags, ordered by name
func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT id, name FROM tags ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// GetByID retrieves a tag by ID
func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	tag := &models.Tag{}
	query := `SELECT id, name FROM tags WHERE id = $1`

	if err := r.db.QueryRow(ctx, query, id).Scan(&tag.ID, &tag.Name); err != nil {
		return nil, err
	}
	return tag, nil
}

// ExistsByName reports whether a tag with the given name exists,
// compared case-insensitively
func (r *TagRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tags WHERE name ILIKE $1)`

	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Assign links a tag to an application. Idempotent: an existing link
// is left untouched.
func (r *TagRepository) Assign(ctx context.Context, applicationID, tagID uuid.UUID) error {
	query := `
		INSERT INTO application_tags (application_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (application_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, applicationID, tagID)
	return err
}

// Unassign removes the link between a tag and an application.
// A no-op when no link exists.
func (r *TagRepository) Unassign(ctx context.Context, applicationID, tagID uuid.UUID) error {
	query := `DELETE FROM application_tags WHERE application_id = $1 AND tag_id = $2`
	_, err := r.db.Exec(ctx, query, applicationID, tagID)
	return err
}
