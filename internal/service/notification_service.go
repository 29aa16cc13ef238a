package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/gateway"
	"Murmur/internal/model"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/mongo"
	"Murmur/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"
)

// NotificationService 站内通知服务接口定义
type NotificationService interface {
	// Notify 落库并实时推送，调用方不关心失败
	Notify(ctx context.Context, receiverID, senderID uint64, notifyType, targetID, content string)
	GetNotifications(ctx context.Context, userID uint64, cursor string, limit int64) ([]*dto.NotificationDTO, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type notificationServiceImpl struct {
	notifRepo mongo.NotificationRepo
	userRepo  repository.UserRepo
	hub       *gateway.Hub
}

func NewNotificationService(notifRepo mongo.NotificationRepo, userRepo repository.UserRepo, hub *gateway.Hub) NotificationService {
	return &notificationServiceImpl{notifRepo: notifRepo, userRepo: userRepo, hub: hub}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, receiverID, senderID uint64, notifyType, targetID, content string) {
	// 自己触发的行为不给自己发通知
	if receiverID == 0 || receiverID == senderID {
		return
	}

	n := &mongo.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       notifyType,
		TargetID:   targetID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		log.Error("create notification failed", "receiverID", receiverID, "type", notifyType, "err", err)
		return
	}

	s.hub.PublishToUser(receiverID, gateway.EventNotification, s.toDTO(n, nil))
}

func (s *notificationServiceImpl) GetNotifications(ctx context.Context, userID uint64, cursor string, limit int64) ([]*dto.NotificationDTO, error) {
	list, err := s.notifRepo.List(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	seen := map[uint64]struct{}{}
	for _, n := range list {
		if n.SenderID == 0 {
			continue
		}
		if _, ok := seen[n.SenderID]; !ok {
			seen[n.SenderID] = struct{}{}
			senderIDs = append(senderIDs, n.SenderID)
		}
	}

	details := map[uint64]*model.UserDetail{}
	if len(senderIDs) > 0 {
		rows, err := s.userRepo.GetUserSimpleInfoByIds(ctx, senderIDs)
		if err != nil {
			return nil, err
		}
		for _, d := range rows {
			details[d.UserID] = d
		}
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		res = append(res, s.toDTO(n, details[n.SenderID]))
	}
	return res, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	if err := s.notifRepo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, mongo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := s.notifRepo.MarkAllRead(ctx, userID)
	return err
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}

func (s *notificationServiceImpl) toDTO(n *mongo.Notification, sender *model.UserDetail) *dto.NotificationDTO {
	d := &dto.NotificationDTO{
		ID:        n.ID.Hex(),
		SenderID:  n.SenderID,
		Type:      n.Type,
		TargetID:  n.TargetID,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.SenderID == 0 {
		d.SenderName = "系统通知"
	}
	if sender != nil {
		d.SenderName = sender.Nickname
		d.AvatarURL = minio.GetPublicURL(sender.AvatarURL)
	}
	return d
}
