package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobtrack-backend/models"
	"jobtrack-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApplicationGetter resolves an application scoped to its owner. Child
// resource handlers use it to gate list/create on the parent.
type ApplicationGetter interface {
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Application, error)
}

// ApplicationStore is the persistence surface the application handler needs
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Application, error)
	List(ctx context.Context, userID uuid.UUID, f repository.ApplicationFilter) ([]*models.Application, error)
	Search(ctx context.Context, userID uuid.UUID, q string, limit int) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ApplicationHandler handles HTTP requests for applications
type ApplicationHandler struct {
	apps ApplicationStore
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(apps ApplicationStore) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// CreateApplicationRequest represents the request body for creating an application
type CreateApplicationRequest struct {
	Company   string     `json:"company" binding:"required"`
	Role      string     `json:"role" binding:"required"`
	Location  *string    `json:"location"`
	Source    *string    `json:"source"`
	SalaryMin *int       `json:"salary_min"`
	SalaryMax *int       `json:"salary_max"`
	Status    string     `json:"status"`
	JobURL    *string    `json:"job_url"`
	JDText    *string    `json:"jd_text"`
	AppliedAt *time.Time `json:"applied_at"`
}

// Create handles POST /applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	status := models.StatusApplied
	if req.Status != "" {
		parsed, err := models.ParseStatus(req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		status = parsed
	}

	if req.JobURL != nil && !isValidURL(*req.JobURL) {
		respondError(c, http.StatusBadRequest, "INVALID_URL", "job_url is not a valid URL")
		return
	}

	app := &models.Application{
		ID:        uuid.New(),
		UserID:    user.ID,
		Company:   req.Company,
		Role:      req.Role,
		Location:  req.Location,
		Source:    req.Source,
		SalaryMin: req.SalaryMin,
		SalaryMax: req.SalaryMax,
		Status:    status,
		JobURL:    req.JobURL,
		JDText:    req.JDText,
		AppliedAt: req.AppliedAt,
	}

	if err := h.apps.Create(c.Request.Context(), app); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, app)
}

// List handles GET /applications with filtering, sorting and pagination
func (h *ApplicationHandler) List(c *gin.Context) {
	user := CurrentUser(c)

	page, err := positiveIntQuery(c, "page", 1)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PAGE", "page must be a positive integer")
		return
	}

	pageSize, err := positiveIntQuery(c, "page_size", 20)
	if err != nil || pageSize > 100 {
		respondError(c, http.StatusBadRequest, "INVALID_PAGE_SIZE", "page_size must be between 1 and 100")
		return
	}

	filter := repository.ApplicationFilter{
		Company:  c.Query("company"),
		Role:     c.Query("role"),
		Q:        c.Query("q"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	}

	if s := c.Query("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		filter.Status = &status
	}

	apps, err := h.apps.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, apps)
}

// Search handles GET /applications/search
func (h *ApplicationHandler) Search(c *gin.Context) {
	user := CurrentUser(c)

	q := c.Query("q")
	if q == "" {
		respondError(c, http.StatusBadRequest, "MISSING_QUERY", "q is required")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			return
		}
		limit = n
	}
	// Clamp rather than reject out-of-range limits.
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	apps, err := h.apps.Search(c.Request.Context(), user.ID, q, limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, apps)
}

// Get handles GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	app, err := h.apps.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, app)
}

// UpdateApplicationRequest represents the sparse request body for a partial
// update. Only fields present in the request are applied.
type UpdateApplicationRequest struct {
	Company   *string    `json:"company"`
	Role      *string    `json:"role"`
	Location  *string    `json:"location"`
	Source    *string    `json:"source"`
	SalaryMin *int       `json:"salary_min"`
	SalaryMax *int       `json:"salary_max"`
	Status    *string    `json:"status"`
	JobURL    *string    `json:"job_url"`
	JDText    *string    `json:"jd_text"`
	AppliedAt *time.Time `json:"applied_at"`
}

// Update handles PATCH /applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	app, err := h.apps.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if req.Status != nil {
		status, err := models.ParseStatus(*req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		app.Status = status
	}
	if req.JobURL != nil {
		if !isValidURL(*req.JobURL) {
			respondError(c, http.StatusBadRequest, "INVALID_URL", "job_url is not a valid URL")
			return
		}
		app.JobURL = req.JobURL
	}
	if req.Company != nil {
		app.Company = *req.Company
	}
	if req.Role != nil {
		app.Role = *req.Role
	}
	if req.Location != nil {
		app.Location = req.Location
	}
	if req.Source != nil {
		app.Source = req.Source
	}
	if req.SalaryMin != nil {
		app.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		app.SalaryMax = req.SalaryMax
	}
	if req.JDText != nil {
		app.JDText = req.JDText
	}
	if req.AppliedAt != nil {
		app.AppliedAt = req.AppliedAt
	}

	// Refreshes last_update_at even when the field set is a no-op.
	if err := h.apps.Update(c.Request.Context(), app); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, app)
}

// Delete handles DELETE /applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	if err := h.apps.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}

func isValidURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func positiveIntQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
