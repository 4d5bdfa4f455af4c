package repository

import (
	"context"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for document metadata.
// The file bytes themselves live in object storage.
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, application_id, file_name, file_type, object_key, size_bytes, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING uploaded_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.ApplicationID,
		doc.FileName,
		doc.FileType,
		doc.ObjectKey,
		doc.SizeBytes,
	).Scan(&doc.UploadedAt)

	return err
}

// GetByID retrieves a document by ID, joined through its application's owner
func (r *DocumentRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Document, error) {
	doc := &models.Document{}
	query := `
		SELECT d.id, d.application_id, d.file_name, d.file_type, d.object_key, d.size_bytes, d.uploaded_at
		FROM documents d
		JOIN applications a ON d.application_id = a.id
		WHERE d.id = $1 AND a.user_id = $2`

	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&doc.ID,
		&doc.ApplicationID,
		&doc.FileName,
		&doc.FileType,
		&doc.ObjectKey,
		&doc.SizeBytes,
		&doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ListByApplication retrieves all documents for an application, newest-first
func (r *DocumentRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT id, application_id, file_name, file_type, object_key, size_bytes, uploaded_at
		FROM documents
		WHERE application_id = $1
		ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.ApplicationID,
			&doc.FileName,
			&doc.FileType,
			&doc.ObjectKey,
			&doc.SizeBytes,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Delete deletes a document record, joined through its application's owner
func (r *DocumentRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `
		DELETE FROM documents d
		USING applications a
		WHERE d.id = $1 AND d.application_id = a.id AND a.user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
