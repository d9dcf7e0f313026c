package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
)

type NotificationHandler interface {
	List(c *gin.Context)
	UnreadCount(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
}

type notificationHandler struct {
	log           *logger.Logger
	notifications services.NotificationService
}

func NewNotificationHandler(log *logger.Logger, notifications services.NotificationService) NotificationHandler {
	return &notificationHandler{
		log:           log.With("handler", "NotificationHandler"),
		notifications: notifications,
	}
}

func (h *notificationHandler) List(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	notifications, err := h.notifications.List(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *notificationHandler) UnreadCount(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *notificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := pathID(c, "notificationID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	notification, err := h.notifications.MarkRead(c.Request.Context(), notificationID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *notificationHandler) MarkAllRead(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.notifications.MarkAllRead(c.Request.Context(), actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
