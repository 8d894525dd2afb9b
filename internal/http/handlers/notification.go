package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/http/response"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread_only") == "true"
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	notifications, unread, err := nh.notificationService.ListNotifications(c.Request.Context(), unreadOnly, offset, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (nh *NotificationHandler) UnreadCount(c *gin.Context) {
	_, unread, err := nh.notificationService.ListNotifications(c.Request.Context(), true, 0, 1)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"unread_count": unread})
}

func (nh *NotificationHandler) GetNotification(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	notification, err := nh.notificationService.GetNotification(c.Request.Context(), notificationID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, notification)
}

// UpdateNotification accepts {"is_read": bool} and toggles the flag either way.
func (nh *NotificationHandler) UpdateNotification(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		IsRead *bool `json:"is_read"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.IsRead == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	notification, err := nh.notificationService.SetRead(c.Request.Context(), notificationID, *req.IsRead)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, notification)
}

func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	notification, err := nh.notificationService.SetRead(c.Request.Context(), notificationID, true)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, notification)
}

func (nh *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := nh.notificationService.MarkAllRead(c.Request.Context()); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (nh *NotificationHandler) DeleteNotification(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := nh.notificationService.DeleteNotification(c.Request.Context(), notificationID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
