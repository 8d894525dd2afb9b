package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/http/response"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type AttachmentHandler struct {
	attachmentService services.AttachmentService
}

func NewAttachmentHandler(attachmentService services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

func (ah *AttachmentHandler) ListProjectAttachments(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	attachments, err := ah.attachmentService.ListProjectAttachments(c.Request.Context(), projectID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attachments": attachments})
}

func (ah *AttachmentHandler) CreateAttachment(c *gin.Context) {
	var req struct {
		ProjectID uuid.UUID `json:"project_id"`
		services.AttachmentInput
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	attachment, err := ah.attachmentService.CreateAttachment(c.Request.Context(), req.ProjectID, req.AttachmentInput)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, attachment)
}

func (ah *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ah.attachmentService.DeleteAttachment(c.Request.Context(), attachmentID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
