package handlers

import (
	"context"
	"net/http"
	"time"

	"jobtrack-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StageStore is the persistence surface the stage handler needs
type StageStore interface {
	Create(ctx context.Context, stage *models.Stage) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Stage, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// StageHandler handles HTTP requests for interview stages
type StageHandler struct {
	stages StageStore
	apps   ApplicationGetter
}

// NewStageHandler creates a new stage handler
func NewStageHandler(stages StageStore, apps ApplicationGetter) *StageHandler {
	return &StageHandler{stages: stages, apps: apps}
}

// List handles GET /stages/:application_id
func (h *StageHandler) List(c *gin.Context) {
	user := CurrentUser(c)

	appID, err := uuid.Parse(c.Param("application_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	if _, err := h.apps.GetByID(c.Request.Context(), appID, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	stages, err := h.stages.ListByApplication(c.Request.Context(), appID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, stages)
}

// CreateStageRequest represents the request body for creating a stage
type CreateStageRequest struct {
	ApplicationID string     `json:"application_id" binding:"required"`
	Type          string     `json:"type" binding:"required"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	Outcome       *string    `json:"outcome"`
	Notes         *string    `json:"notes"`
}

// Create handles POST /stages
func (h *StageHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	stageType, err := models.ParseStageType(req.Type)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STAGE_TYPE", err.Error())
		return
	}

	if _, err := h.apps.GetByID(c.Request.Context(), appID, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	stage := &models.Stage{
		ID:            uuid.New(),
		ApplicationID: appID,
		Type:          stageType,
		ScheduledAt:   req.ScheduledAt,
		Outcome:       req.Outcome,
		Notes:         req.Notes,
	}

	if err := h.stages.Create(c.Request.Context(), stage); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, stage)
}

// Delete handles DELETE /stages/:id
func (h *StageHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid stage ID format")
		return
	}

	if err := h.stages.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}
