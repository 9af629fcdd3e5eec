package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
)

type NotificationsHandler struct {
	inbox notification.Inbox
}

func NewNotificationsHandler(inbox notification.Inbox) *NotificationsHandler {
	return &NotificationsHandler{inbox: inbox}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	items, err := h.inbox.ListForUser(c.Request.Context(), middleware.UserID(c), notification.MaxInboxItems)
	if err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Could not load notifications.")
		return
	}

	httpresp.List(c, items)
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	n, err := h.inbox.MarkRead(c.Request.Context(), middleware.UserID(c), id)
	if errors.Is(err, notification.ErrNotFound) {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_mark_read", "Could not update notification.")
		return
	}

	httpresp.OK(c, n)
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	if err := h.inbox.MarkAllRead(c.Request.Context(), middleware.UserID(c)); err != nil {
		httperr.Internal(c, "failed_to_mark_read", "Could not update notifications.")
		return
	}

	c.Status(http.StatusNoContent)
}
