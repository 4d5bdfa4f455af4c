package handlers

import (
	"context"
	"net/http"

	"jobtrack-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NoteStore is the persistence surface the note handler needs
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Note, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// NoteHandler handles HTTP requests for notes
type NoteHandler struct {
	notes NoteStore
	apps  ApplicationGetter
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes NoteStore, apps ApplicationGetter) *NoteHandler {
	return &NoteHandler{notes: notes, apps: apps}
}

// List handles GET /notes/:application_id
func (h *NoteHandler) List(c *gin.Context) {
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

	notes, err := h.notes.ListByApplication(c.Request.Context(), appID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, notes)
}

// CreateNoteRequest represents the request body for creating a note
type CreateNoteRequest struct {
	ApplicationID string `json:"application_id" binding:"required"`
	Content       string `json:"content" binding:"required"`
}

// Create handles POST /notes
func (h *NoteHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req CreateNoteRequest
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

	note := &models.Note{
		ID:            uuid.New(),
		ApplicationID: appID,
		UserID:        user.ID,
		Content:       req.Content,
	}

	if err := h.notes.Create(c.Request.Context(), note); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, note)
}

// Delete handles DELETE /notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid note ID format")
		return
	}

	if err := h.notes.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}
