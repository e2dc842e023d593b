package handlers

import (
	"net/http"
	"strconv"

	"carhive/services/notification"
	"carhive/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the notification inbox over HTTP. Every route
// operates on the authenticated caller's own notifications.
type NotificationHandler struct {
	svc notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// ListNotifications returns one page of the caller's notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "page must be a positive integer")
		return
	}

	notifications, err := h.svc.GetNotifications(c.Request.Context(), c.GetString("userID"), page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount returns the caller's unread-notification counter.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type notificationIDs struct {
	IDs []string `json:"ids"`
}

// MarkAsRead marks the listed notifications read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	var input notificationIDs
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	changed, err := h.svc.MarkAsRead(c.Request.Context(), c.GetString("userID"), input.IDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// MarkAsUnread marks the listed notifications unread.
func (h *NotificationHandler) MarkAsUnread(c *gin.Context) {
	var input notificationIDs
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	changed, err := h.svc.MarkAsUnread(c.Request.Context(), c.GetString("userID"), input.IDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// DeleteNotifications removes the listed notifications.
func (h *NotificationHandler) DeleteNotifications(c *gin.Context) {
	var input notificationIDs
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), c.GetString("userID"), input.IDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
