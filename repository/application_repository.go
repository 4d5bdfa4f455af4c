package repository

import (
	"context"
	"fmt"
	"strings"

	"jobtrack-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, user_id, company, role, location, source,
	salary_min, salary_max, status, job_url, jd_text, applied_at, last_update_at`

// sortColumns whitelists the fields the list endpoint may order by.
// An unrecognized field silently falls back to last_update_at.
var sortColumns = map[string]bool{
	"company":        true,
	"role":           true,
	"location":       true,
	"source":         true,
	"status":         true,
	"applied_at":     true,
	"last_update_at": true,
}

// orderClause translates a sort parameter ("field" or "-field") into an
// ORDER BY fragment, falling back to -last_update_at for unknown fields.
func orderClause(sort string) string {
	direction := "ASC"
	field := sort
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		field = sort[1:]
	}
	if !sortColumns[field] {
		field = "last_update_at"
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", field, direction)
}

// ApplicationFilter holds the list endpoint's filter, sort and pagination
// parameters. All filters are ANDed and implicitly scoped to the owner.
type ApplicationFilter struct {
	Status   *models.Status
	Company  string
	Role     string
	Q        string
	Sort     string
	Page     int
	PageSize int
}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates a new application. last_update_at is set server-side.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (
			id, user_id, company, role, location, source,
			salary_min, salary_max, status, job_url, jd_text, applied_at, last_update_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW()
		) RETURNING last_update_at`

	err := r.db.QueryRow(
		ctx, query,
		app.ID,
		app.UserID,
		app.Company,
		app.Role,
		app.Location,
		app.Source,
		app.SalaryMin,
		app.SalaryMax,
		app.Status,
		app.JobURL,
		app.JDText,
		app.AppliedAt,
	).Scan(&app.LastUpdateAt)

	return err
}

// GetByID retrieves an application by ID, scoped to its owner
func (r *ApplicationRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE id = $1 AND user_id = $2`

	return scanApplication(r.db.QueryRow(ctx, query, id, userID))
}

// List retrieves a page of the owner's applications matching the filter
func (r *ApplicationRepository) List(ctx context.Context, userID uuid.UUID, f ApplicationFilter) ([]*models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *f.Status)
		argIndex++
	}
	if f.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argIndex)
		args = append(args, "%"+f.Company+"%")
		argIndex++
	}
	if f.Role != "" {
		query += fmt.Sprintf(" AND role ILIKE $%d", argIndex)
		args = append(args, "%"+f.Role+"%")
		argIndex++
	}
	if f.Q != "" {
		query += fmt.Sprintf(" AND (company ILIKE $%d OR role ILIKE $%d OR jd_text ILIKE $%d)",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+f.Q+"%")
		argIndex++
	}

	query += orderClause(f.Sort)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplications(rows)
}

// Search retrieves the owner's applications matching a free-text query
// across company, role, location and job description, newest-first.
func (r *ApplicationRepository) Search(ctx context.Context, userID uuid.UUID, q string, limit int) ([]*models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1
			AND (company ILIKE $2 OR role ILIKE $2 OR location ILIKE $2 OR jd_text ILIKE $2)
		ORDER BY last_update_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplications(rows)
}

// Update writes every mutable column and refreshes last_update_at.
// The owner predicate is part of the statement, not a separate check.
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	query := `
		UPDATE applications SET
			company = $3,
			role = $4,
			location = $5,
			source = $6,
			salary_min = $7,
			salary_max = $8,
			status = $9,
			job_url = $10,
			jd_text = $11,
			applied_at = $12,
			last_update_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING last_update_at`

	err := r.db.QueryRow(
		ctx, query,
		app.ID,
		app.UserID,
		app.Company,
		app.Role,
		app.Location,
		app.Source,
		app.SalaryMin,
		app.SalaryMax,
		app.Status,
		app.JobURL,
		app.JDText,
		app.AppliedAt,
	).Scan(&app.LastUpdateAt)

	return err
}

// Delete deletes an application owned by the given user
func (r *ApplicationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	app := &models.Application{}
	err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.Company,
		&app.Role,
		&app.Location,
		&app.Source,
		&app.SalaryMin,
		&app.SalaryMax,
		&app.Status,
		&app.JobURL,
		&app.JDText,
		&app.AppliedAt,
		&app.LastUpdateAt,
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func scanApplications(rows pgx.Rows) ([]*models.Application, error) {
	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
