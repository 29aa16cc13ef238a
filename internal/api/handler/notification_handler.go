package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifSvc service.NotificationService
}

func NewNotificationHandler(notifSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc}
}

func (s *NotificationHandler) List(c *gin.Context) {
	userId := c.GetUint64("user_id")
	cursor := c.Query("cursor")
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.notifSvc.GetNotifications(c.Request.Context(), userId, cursor, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userId := c.GetUint64("user_id")
	id := c.Param("notification_id")

	if err := s.notifSvc.MarkRead(c.Request.Context(), userId, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userId := c.GetUint64("user_id")

	if err := s.notifSvc.MarkAllRead(c.Request.Context(), userId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) UnreadCount(c *gin.Context) {
	userId := c.GetUint64("user_id")

	count, err := s.notifSvc.GetUnreadCount(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.NotificationUnreadDTO{UnreadCount: count})
}
