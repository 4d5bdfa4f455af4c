package handlers

import (
	"context"
	"errors"
	"net/http"

	"jobtrack-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TagStore is the persistence surface the tag handler needs
type TagStore interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]*models.Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Assign(ctx context.Context, applicationID, tagID uuid.UUID) error
	Unassign(ctx context.Context, applicationID, tagID uuid.UUID) error
}

// TagHandler handles HTTP requests for tags and tag assignment
type TagHandler struct {
	tags TagStore
	apps ApplicationGetter
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags TagStore, apps ApplicationGetter) *TagHandler {
	return &TagHandler{tags: tags, apps: apps}
}

// List handles GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, tags)
}

// CreateTagRequest represents the request body for creating a tag
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /tags. Names are stored as given but uniqueness is
// checked case-insensitively.
func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	exists, err := h.tags.ExistsByName(c.Request.Context(), req.Name)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "TAG_EXISTS", "Tag already exists")
		return
	}

	tag := &models.Tag{
		ID:   uuid.New(),
		Name: req.Name,
	}

	if err := h.tags.Create(c.Request.Context(), tag); err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "TAG_EXISTS", "Tag already exists")
			return
		}
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, tag)
}

// resolvePair parses the path params and verifies the application is owned
// by the caller and the tag exists
func (h *TagHandler) resolvePair(c *gin.Context) (appID, tagID uuid.UUID, ok bool) {
	user := CurrentUser(c)

	appID, err := uuid.Parse(c.Param("application_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return uuid.Nil, uuid.Nil, false
	}

	tagID, err = uuid.Parse(c.Param("tag_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid tag ID format")
		return uuid.Nil, uuid.Nil, false
	}

	if _, err := h.apps.GetByID(c.Request.Context(), appID, user.ID); err != nil {
		respondStoreError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	if _, err := h.tags.GetByID(c.Request.Context(), tagID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Tag not found")
			return uuid.Nil, uuid.Nil, false
		}
		respondStoreError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	return appID, tagID, true
}

// Assign handles POST /tags/assign/:application_id/:tag_id. Idempotent.
func (h *TagHandler) Assign(c *gin.Context) {
	appID, tagID, ok := h.resolvePair(c)
	if !ok {
		return
	}

	if err := h.tags.Assign(c.Request.Context(), appID, tagID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}

// Unassign handles DELETE /tags/assign/:application_id/:tag_id. A no-op
// when the pair is not linked.
func (h *TagHandler) Unassign(c *gin.Context) {
	appID, tagID, ok := h.resolvePair(c)
	if !ok {
		return
	}

	if err := h.tags.Unassign(c.Request.Context(), appID, tagID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}
