package repository

import (
	"Murmur/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type ChatRepo interface {
	CreateChat(ctx context.Context, chat *model.Chat, members []*model.ChatMember) error
	GetChat(ctx context.Context, chatID uint64) (*model.Chat, error)
	GetChatByPeerKey(ctx context.Context, peerKey string) (*model.Chat, error)
	IsMember(ctx context.Context, chatID uint64, userID uint64) (bool, error)
	GetMember(ctx context.Context, chatID, userID uint64) (*model.ChatMember, error)
	GetMemberIDs(ctx context.Context, chatID uint64) ([]uint64, error)
	AddMembers(ctx context.Context, chatID uint64, userIDs []uint64) error
	RemoveMember(ctx context.Context, chatID, userID uint64) error
	CountMembers(ctx context.Context, chatID uint64) (int64, error)
	DeleteChat(ctx context.Context, chatID uint64) error

	ApplyNewMessage(ctx context.Context, chatID, senderID uint64, last model.LastMessage) error
	ResetUnread(ctx context.Context, chatID, userID uint64) error
	MarkLastMessageRead(ctx context.Context, chatID uint64) error
	SetLastMessage(ctx context.Context, chatID uint64, last model.LastMessage) error

	SetVisibility(ctx context.Context, chatID, userID uint64, visible int8) error
	SetPinned(ctx context.Context, chatID, userID uint64, pinned int8) error
	SetMuted(ctx context.Context, chatID, userID uint64, muted int8) error

	GetUserChatMemList(ctx context.Context, userID uint64) ([]*model.ChatMember, error)
	GetTotalUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type chatRepoImpl struct {
	db *gorm.DB
}

func NewChatRepo(db *gorm.DB) ChatRepo {
	return &chatRepoImpl{db: db}
}

// CreateChat 开启事务创建会话及初始成员
func (s *chatRepoImpl) CreateChat(ctx context.Context, chat *model.Chat, members []*model.ChatMember) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		for _, m := range members {
			m.ChatID = chat.ID
			m.JoinedAt = time.Now()
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetChat 根据会话 ID 获取会话
func (s *chatRepoImpl) GetChat(ctx context.Context, chatID uint64) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).First(&chat, chatID).Error
	return &chat, err
}

// GetChatByPeerKey 根据单聊去重键获取会话
func (s *chatRepoImpl) GetChatByPeerKey(ctx context.Context, peerKey string) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).Where("peer_key = ?", peerKey).First(&chat).Error
	return &chat, err
}

// IsMember 检查用户是否是会话成员
func (s *chatRepoImpl) IsMember(ctx context.Context, chatID uint64, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *chatRepoImpl) GetMember(ctx context.Context, chatID, userID uint64) (*model.ChatMember, error) {
	var m model.ChatMember
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&m).Error
	return &m, err
}

func (s *chatRepoImpl) GetMemberIDs(ctx context.Context, chatID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (s *chatRepoImpl) AddMembers(ctx context.Context, chatID uint64, userIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, uid := range userIDs {
			m := model.ChatMember{ChatID: chatID, UserID: uid, IsVisible: 1, JoinedAt: time.Now()}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *chatRepoImpl) RemoveMember(ctx context.Context, chatID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Delete(&model.ChatMember{}).Error
}

func (s *chatRepoImpl) CountMembers(ctx context.Context, chatID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	return count, err
}

// DeleteChat 级联删除会话与成员
func (s *chatRepoImpl) DeleteChat(ctx context.Context, chatID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&model.ChatMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chat{}, chatID).Error
	})
}

// ApplyNewMessage 收敛一条新消息对 MySQL 侧的全部影响：
// 摘要刷新、发送者以外成员未读数原子 +1、会话可见性唤醒，单事务完成
func (s *chatRepoImpl) ApplyNewMessage(ctx context.Context, chatID, senderID uint64, last model.LastMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Chat{}).Where("id = ?", chatID).
			Updates(map[string]interface{}{
				"last_msg_id":      last.MsgID,
				"last_msg_content": last.Content,
				"last_msg_type":    last.MsgType,
				"last_sender_id":   last.SenderID,
				"last_msg_read":    0,
				"last_message_at":  last.CreatedAt,
			}).Error
		if err != nil {
			return err
		}

		// 单条 UPDATE 给发送者之外的所有成员加未读，不读回再写
		err = tx.Model(&model.ChatMember{}).
			Where("chat_id = ? AND user_id <> ?", chatID, senderID).
			Update("unread_count", gorm.Expr("unread_count + 1")).Error
		if err != nil {
			return err
		}

		// 唤醒所有成员会话可见性 (用于“删除会话”后的自动浮现)
		return tx.Model(&model.ChatMember{}).
			Where("chat_id = ?", chatID).
			Update("is_visible", 1).Error
	})
}

// ResetUnread 已读归零
func (s *chatRepoImpl) ResetUnread(ctx context.Context, chatID, userID uint64) error {
	return s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("unread_count", 0).Error
}

// MarkLastMessageRead 标记摘要中的最后一条已被对方读过
func (s *chatRepoImpl) MarkLastMessageRead(ctx context.Context, chatID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Chat{}).
		Where("id = ?", chatID).
		Update("last_msg_read", 1).Error
}

// SetLastMessage 直接覆写会话摘要，删除最后一条消息后重算时使用
func (s *chatRepoImpl) SetLastMessage(ctx context.Context, chatID uint64, last model.LastMessage) error {
	return s.db.WithContext(ctx).Model(&model.Chat{}).Where("id = ?", chatID).
		Updates(map[string]interface{}{
			"last_msg_id":      last.MsgID,
			"last_msg_content": last.Content,
			"last_msg_type":    last.MsgType,
			"last_sender_id":   last.SenderID,
			"last_message_at":  last.CreatedAt,
		}).Error
}

func (s *chatRepoImpl) SetVisibility(ctx context.Context, chatID, userID uint64, visible int8) error {
	return s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("is_visible", visible).Error
}

func (s *chatRepoImpl) SetPinned(ctx context.Context, chatID, userID uint64, pinned int8) error {
	return s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("is_pinned", pinned).Error
}

func (s *chatRepoImpl) SetMuted(ctx context.Context, chatID, userID uint64, muted int8) error {
	return s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("is_muted", muted).Error
}

// GetUserChatMemList 联表查询，利用嵌套 Model 自动装配
func (s *chatRepoImpl) GetUserChatMemList(ctx context.Context, userID uint64) ([]*model.ChatMember, error) {
	var members []*model.ChatMember
	// 使用 Chat__ 别名配合 GORM 的嵌套填充特性
	err := s.db.WithContext(ctx).Table("chat_members m").
		Select("m.*, "+
			"c.id AS `Chat__id`, c.kind AS `Chat__kind`, "+
			"c.peer_key AS `Chat__peer_key`, c.name AS `Chat__name`, "+
			"c.last_msg_id AS `Chat__last_msg_id`, "+
			"c.last_msg_content AS `Chat__last_msg_content`, "+
			"c.last_msg_type AS `Chat__last_msg_type`, "+
			"c.last_sender_id AS `Chat__last_sender_id`, "+
			"c.last_msg_read AS `Chat__last_msg_read`, "+
			"c.last_message_at AS `Chat__last_message_at`").
		Joins("JOIN chats c ON m.chat_id = c.id").
		Where("m.user_id = ? AND m.is_visible = 1", userID).
		Order("m.is_pinned DESC, c.last_message_at DESC").
		Find(&members).Error
	return members, err
}

// GetTotalUnreadCount 计算全局未读数
func (s *chatRepoImpl) GetTotalUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	return total, err
}
