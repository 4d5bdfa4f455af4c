package handlers

import (
	"context"
	"net/http"

	"jobtrack-backend/models"
	"jobtrack-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentStore is the persistence surface the document handler needs
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Document, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// DocumentHandler coordinates presigned direct uploads and downloads and
// the document metadata rows behind them
type DocumentHandler struct {
	docs      DocumentStore
	apps      ApplicationGetter
	presigner storage.Presigner
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docs DocumentStore, apps ApplicationGetter, presigner storage.Presigner) *DocumentHandler {
	return &DocumentHandler{docs: docs, apps: apps, presigner: presigner}
}

// List handles GET /documents/:application_id
func (h *DocumentHandler) List(c *gin.Context) {
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

	docs, err := h.docs.ListByApplication(c.Request.Context(), appID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, docs)
}

// PresignRequest represents the request body for a presigned upload URL
type PresignRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// Presign handles POST /documents/:application_id/presign. The client
// uploads directly to object storage with the returned URL, then registers
// the object key via Register.
func (h *DocumentHandler) Presign(c *gin.Context) {
	user := CurrentUser(c)

	appID, err := uuid.Parse(c.Param("application_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid application ID format")
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if _, err := h.apps.GetByID(c.Request.Context(), appID, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	uploadURL, objectKey, err := h.presigner.PresignUpload(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "PRESIGN_FAILED", "Failed to presign upload")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"object_key": objectKey,
	})
}

// RegisterDocumentRequest represents the request body for registering an
// uploaded object as a document
type RegisterDocumentRequest struct {
	ApplicationID string `json:"application_id" binding:"required"`
	ObjectKey     string `json:"object_key" binding:"required"`
	FileName      string `json:"file_name" binding:"required"`
	FileType      string `json:"file_type" binding:"required"`
	SizeBytes     *int64 `json:"size_bytes"`
}

// Register handles POST /documents. The object is not verified against
// storage; the client is trusted to have completed the upload.
func (h *DocumentHandler) Register(c *gin.Context) {
	user := CurrentUser(c)

	var req RegisterDocumentRequest
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

	doc := &models.Document{
		ID:            uuid.New(),
		ApplicationID: appID,
		FileName:      req.FileName,
		FileType:      req.FileType,
		ObjectKey:     req.ObjectKey,
		SizeBytes:     req.SizeBytes,
	}

	if err := h.docs.Create(c.Request.Context(), doc); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusCreated, doc)
}

// Download handles GET /documents/download/:document_id, minting a
// short-lived read URL for the stored object
func (h *DocumentHandler) Download(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID format")
		return
	}

	doc, err := h.docs.GetByID(c.Request.Context(), id, user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	url, err := h.presigner.PresignDownload(c.Request.Context(), doc.ObjectKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "PRESIGN_FAILED", "Failed to presign download")
		return
	}

	respondData(c, http.StatusOK, gin.H{"url": url})
}

// Delete handles DELETE /documents/:id. The stored object is left in place;
// only the metadata row is removed.
func (h *DocumentHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID format")
		return
	}

	if err := h.docs.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondStoreError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"ok": true})
}
