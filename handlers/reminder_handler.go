package handlers

import (
	"context"
	"net/http"
	"time"

	"jobtrack-backend/models"
	"jobtrack-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReminderStore is the persistence surface the reminder handler needs
type ReminderStore interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Reminder, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ReminderHandler handles HTTP requests for reminders, including the
// manually triggered due-reminder sweep
type ReminderHandler struct {
	reminders ReminderStore
	apps      ApplicationGetter
	sweep     *service.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders ReminderStore, apps ApplicationGetter, sweep *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, apps: apps, sweep: sweep}
}

// List handles GET /reminders/:application_id, soonest-first
func (h *ReminderHandler) List(c *gin.Context) {
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

	reminders, err := h.reminders.ListByApplication(c.Request.Context(), appID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, reminders)
}

// CreateReminderRequest represents the request body for creating a reminder
type CreateReminderRequest struct {
	ApplicationID string    `json:"application_id" binding:"required"`
	DueAt         time.Time `json:"due_at" binding:"required"`
	Message       string    `json:"message" binding:"required"`
}

// Create handles POST /reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	if _, err := h.apps.GetByID(c.Request.Context(), appID, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	reminder := &models.Reminder{
		ID:            uuid.New(),
		ApplicationID: appID,
		DueAt:         req.DueAt,
		Message:       req.Message,
		Sent:          false,
	}

	if err := h.reminders.Create(c.Request.Context(), reminder); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, reminder)
}

// Delete handles DELETE /reminders/:id
func (h *ReminderHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid reminder ID format")
		return
	}

	if err := h.reminders.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}

// RunDue handles POST /reminders/run-due, the externally triggered sweep
func (h *ReminderHandler) RunDue(c *gin.Context) {
	user := CurrentUser(c)

	count, err := h.sweep.RunDue(c.Request.Context(), user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"sent_count": count})
}
