package handlers

import (
	"context"
	"net/http"

	"jobtrack-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactStore is the persistence surface the contact handler needs
type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Contact, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ContactHandler handles HTTP requests for contacts
type ContactHandler struct {
	contacts ContactStore
	apps     ApplicationGetter
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts ContactStore, apps ApplicationGetter) *ContactHandler {
	return &ContactHandler{contacts: contacts, apps: apps}
}

// List handles GET /contacts/:application_id
func (h *ContactHandler) List(c *gin.Context) {
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

	contacts, err := h.contacts.ListByApplication(c.Request.Context(), appID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, contacts)
}

// CreateContactRequest represents the request body for creating a contact
type CreateContactRequest struct {
	ApplicationID string  `json:"application_id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Role          *string `json:"role"`
	Notes         *string `json:"notes"`
}

// Create handles POST /contacts
func (h *ContactHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req CreateContactRequest
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

	contact := &models.Contact{
		ID:            uuid.New(),
		ApplicationID: appID,
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		Notes:         req.Notes,
	}

	if err := h.contacts.Create(c.Request.Context(), contact); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, contact)
}

// Delete handles DELETE /contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid contact ID format")
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}
