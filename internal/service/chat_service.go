package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/gateway"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/mongo"
	"Murmur/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// ChatService 即时通讯服务接口定义
type ChatService interface {
	SendMessage(ctx context.Context, senderID uint64, senderSocketID string, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	IsMember(ctx context.Context, chatID, userID uint64) (bool, error)
	GetOrCreateDirectChat(ctx context.Context, userID, targetUserID uint64) (uint64, error)
	CreateGroupChat(ctx context.Context, creatorID uint64, req *dto.CreateGroupChatReq) (uint64, error)
	AddMembers(ctx context.Context, operatorID, chatID uint64, userIDs []uint64) error
	RemoveMember(ctx context.Context, operatorID, chatID, targetID uint64) error
	LeaveChat(ctx context.Context, userID, chatID uint64) error
	GetChatHistory(ctx context.Context, userID uint64, chatID uint64, cursor string, limit int64) ([]*dto.MessageDTO, error)
	GetChatList(ctx context.Context, userID uint64) ([]*dto.ChatDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, chatID uint64) error
	GetTotalUnread(ctx context.Context, userID uint64) (int64, error)
	HideChat(ctx context.Context, userID, chatID uint64) error
	UnhideChat(ctx context.Context, userID, chatID uint64) error
	SetChatPinned(ctx context.Context, userID, chatID uint64, pinned bool) error
	SetChatMuted(ctx context.Context, userID, chatID uint64, muted bool) error
	EditMessage(ctx context.Context, userID uint64, msgID string, content string) error
	DeleteMessage(ctx context.Context, userID uint64, msgID string) error
	ToggleReaction(ctx context.Context, userID uint64, msgID string, emoji string) error
	SetMessagePinned(ctx context.Context, userID uint64, msgID string, pinned bool) error
	GetPinnedMessages(ctx context.Context, userID, chatID uint64) ([]*dto.MessageDTO, error)
	Close()
}

type chatServiceImpl struct {
	chatRepo    repository.ChatRepo
	messageRepo mongo.MessageRepo
	userRepo    repository.UserRepo
	hub         *gateway.Hub
	analytics   AnalyticsService

	retryChan chan *mongo.Message
	wg        sync.WaitGroup
	stopChan  chan struct{}
}

// NewChatService 构造函数：初始化服务并启动异步校准工作池
func NewChatService(
	chatRepo repository.ChatRepo,
	messageRepo mongo.MessageRepo,
	userRepo repository.UserRepo,
	hub *gateway.Hub,
	analytics AnalyticsService,
) ChatService {
	s := &chatServiceImpl{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		hub:         hub,
		analytics:   analytics,
		retryChan:   make(chan *mongo.Message, 2048),
		stopChan:    make(chan struct{}),
	}

	workerCount := 5
	s.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.calibrationWorker()
	}

	return s
}

// SendMessage 发送消息。senderSocketID 用于回显排除：
// 发送者的其他在线端仍会收到 new_message
func (s *chatServiceImpl) SendMessage(ctx context.Context, senderID uint64, senderSocketID string, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	chatID := req.ChatID

	// 确定会话 ID：单聊允许懒创建
	if chatID == 0 {
		if req.TargetUserID == 0 || req.TargetUserID == senderID {
			return nil, ErrTargetUserInvalid
		}
		id, err := s.GetOrCreateDirectChat(ctx, senderID, req.TargetUserID)
		if err != nil {
			return nil, err
		}
		chatID = id
	} else {
		isMember, err := s.chatRepo.IsMember(ctx, chatID, senderID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, ErrNotChatMember
		}
	}

	// 构造并存入 MongoDB
	msgModel := &mongo.Message{
		ChatID:      chatID,
		SenderID:    senderID,
		MsgType:     int8(req.MsgType),
		Content:     req.Content,
		Attachments: toAttachments(req.Attachments),
		ReplyTo:     req.ReplyTo,
		CreatedAt:   time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.messageRepo.Save(writeCtx, msgModel); err != nil {
		select {
		case s.retryChan <- msgModel:
		default:
			log.Error("message retry buffer full, dropping", "chatID", chatID)
		}
	}

	// MySQL 侧单事务收敛：摘要刷新 + 未读定数 + 可见性唤醒
	last := model.LastMessage{
		MsgID:     msgModel.ID.Hex(),
		Content:   buildPreview(int8(req.MsgType), req.Content),
		MsgType:   int8(req.MsgType),
		SenderID:  senderID,
		CreatedAt: msgModel.CreatedAt,
	}
	if err := s.chatRepo.ApplyNewMessage(ctx, chatID, senderID, last); err != nil {
		return nil, err
	}

	msgDTO := s.toMessageDTO(msgModel)

	// 推送到会话房间，排除发送者当前 socket
	s.hub.PublishToChat(chatID, gateway.EventNewMessage, msgDTO, senderSocketID)

	s.analytics.Track(ctx, EventMessageSent, senderID, map[string]string{
		"chat_id": fmt.Sprintf("%d", chatID),
	})

	return msgDTO, nil
}

func (s *chatServiceImpl) IsMember(ctx context.Context, chatID, userID uint64) (bool, error) {
	return s.chatRepo.IsMember(ctx, chatID, userID)
}

// GetOrCreateDirectChat 针对单聊：获取或创建会话
func (s *chatServiceImpl) GetOrCreateDirectChat(ctx context.Context, userID, targetUserID uint64) (uint64, error) {
	target, err := s.userRepo.GetUserById(ctx, targetUserID)
	if err != nil {
		return 0, err
	}
	if target == nil || target.IsDelete {
		return 0, ErrTargetUserInvalid
	}

	peerKey := buildPeerKey(userID, targetUserID)

	chat, err := s.chatRepo.GetChatByPeerKey(ctx, peerKey)
	if err == nil {
		return chat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	newChat := &model.Chat{
		Kind:          consts.ChatKindDirect,
		PeerKey:       &peerKey,
		CreatorID:     userID,
		LastMessageAt: time.Now(),
	}
	members := []*model.ChatMember{
		{UserID: userID, IsVisible: 1},
		{UserID: targetUserID, IsVisible: 1},
	}

	if err := s.chatRepo.CreateChat(ctx, newChat, members); err != nil {
		return 0, err
	}
	return newChat.ID, nil
}

// CreateGroupChat 建群，创建者自动成为管理员
func (s *chatServiceImpl) CreateGroupChat(ctx context.Context, creatorID uint64, req *dto.CreateGroupChatReq) (uint64, error) {
	newChat := &model.Chat{
		Kind:          consts.ChatKindGroup,
		Name:          req.Name,
		CreatorID:     creatorID,
		LastMessageAt: time.Now(),
	}

	members := []*model.ChatMember{
		{UserID: creatorID, IsAdmin: true, IsVisible: 1},
	}
	for _, uid := range req.MemberIDs {
		if uid == creatorID {
			continue
		}
		members = append(members, &model.ChatMember{UserID: uid, IsVisible: 1})
	}

	if err := s.chatRepo.CreateChat(ctx, newChat, members); err != nil {
		return 0, err
	}
	return newChat.ID, nil
}

func (s *chatServiceImpl) AddMembers(ctx context.Context, operatorID, chatID uint64, userIDs []uint64) error {
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return ErrChatNotFound
	}
	if chat.Kind != consts.ChatKindGroup {
		return ErrChatInvalid
	}
	operator, err := s.chatRepo.GetMember(ctx, chatID, operatorID)
	if err != nil {
		return ErrNotChatMember
	}
	if !operator.IsAdmin {
		return ErrNotChatAdmin
	}

	newIDs := make([]uint64, 0, len(userIDs))
	for _, uid := range userIDs {
		isMember, err := s.chatRepo.IsMember(ctx, chatID, uid)
		if err != nil {
			return err
		}
		if !isMember {
			newIDs = append(newIDs, uid)
		}
	}
	if len(newIDs) == 0 {
		return nil
	}
	return s.chatRepo.AddMembers(ctx, chatID, newIDs)
}

// RemoveMember 群管理员踢人
func (s *chatServiceImpl) RemoveMember(ctx context.Context, operatorID, chatID, targetID uint64) error {
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return ErrChatNotFound
	}
	if chat.Kind != consts.ChatKindGroup {
		return ErrChatInvalid
	}
	operator, err := s.chatRepo.GetMember(ctx, chatID, operatorID)
	if err != nil {
		return ErrNotChatMember
	}
	if !operator.IsAdmin {
		return ErrNotChatAdmin
	}

	isMember, err := s.chatRepo.IsMember(ctx, chatID, targetID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotChatMember
	}
	return s.chatRepo.RemoveMember(ctx, chatID, targetID)
}

// LeaveChat 退出会话，群空了则连会话一起删掉
func (s *chatServiceImpl) LeaveChat(ctx context.Context, userID, chatID uint64) error {
	isMember, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotChatMember
	}

	if err = s.chatRepo.RemoveMember(ctx, chatID, userID); err != nil {
		return err
	}

	count, err := s.chatRepo.CountMembers(ctx, chatID)
	if err != nil {
		return err
	}
	if count == 0 {
		return s.chatRepo.DeleteChat(ctx, chatID)
	}
	return nil
}

// GetChatHistory 拉取历史，游标为上一页最旧消息 ID
func (s *chatServiceImpl) GetChatHistory(ctx context.Context, userID uint64, chatID uint64, cursor string, limit int64) ([]*dto.MessageDTO, error) {
	isMember, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil || !isMember {
		return nil, UnauthorizedError
	}

	models, err := s.messageRepo.GetHistory(ctx, chatID, cursor, limit)
	if err != nil {
		if errors.Is(err, mongo.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, s.toMessageDTO(m))
	}
	return res, nil
}

// GetChatList 获取会话列表，补齐单聊对手方昵称/头像/在线状态
func (s *chatServiceImpl) GetChatList(ctx context.Context, userID uint64) ([]*dto.ChatDTO, error) {
	members, err := s.chatRepo.GetUserChatMemList(ctx, userID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		if m.Chat.Kind == consts.ChatKindDirect && m.Chat.PeerKey != nil {
			if peerID, err := parsePeerID(*m.Chat.PeerKey, userID); err == nil {
				peerIDs = append(peerIDs, peerID)
			}
		}
	}

	peerDetails := map[uint64]*model.UserDetail{}
	peerStatuses := map[uint64]string{}
	if len(peerIDs) > 0 {
		details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, peerIDs)
		if err != nil {
			return nil, err
		}
		for _, d := range details {
			peerDetails[d.UserID] = d
		}
		peerStatuses, err = s.userRepo.GetUserStatuses(ctx, peerIDs)
		if err != nil {
			return nil, err
		}
	}

	res := make([]*dto.ChatDTO, 0, len(members))
	for _, m := range members {
		d := &dto.ChatDTO{
			ChatID:         m.ChatID,
			Kind:           m.Chat.Kind,
			Name:           m.Chat.Name,
			LastMsgContent: m.Chat.LastMsgContent,
			LastMsgType:    m.Chat.LastMsgType,
			LastSenderID:   m.Chat.LastSenderID,
			LastMsgRead:    m.Chat.LastMsgRead,
			LastMessageAt:  m.Chat.LastMessageAt,
			UnreadCount:    m.UnreadCount,
			IsMuted:        m.IsMuted == 1,
			IsPinned:       m.IsPinned == 1,
		}

		if m.Chat.Kind == consts.ChatKindDirect && m.Chat.PeerKey != nil {
			peerID, err := parsePeerID(*m.Chat.PeerKey, userID)
			if err == nil {
				d.PeerID = peerID
				if detail := peerDetails[peerID]; detail != nil {
					d.Name = detail.Nickname
					d.AvatarURL = detail.AvatarURL
				}
				d.PeerStatus = peerStatuses[peerID]
			}
		}
		res = append(res, d)
	}
	return res, nil
}

// MarkAsRead 标记已读：未读归零 + 批量回执 + 回执广播
func (s *chatServiceImpl) MarkAsRead(ctx context.Context, userID uint64, chatID uint64) error {
	isMember, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil || !isMember {
		return UnauthorizedError
	}

	if err = s.chatRepo.ResetUnread(ctx, chatID, userID); err != nil {
		return err
	}

	readAt := time.Now()
	msgIDs, err := s.messageRepo.AddReadReceipts(ctx, chatID, userID, readAt)
	if err != nil {
		return err
	}
	if len(msgIDs) == 0 {
		return nil
	}

	// 最后一条不是自己发的，说明对方能看到“已读”了
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err == nil && chat.LastSenderID != userID {
		if err = s.chatRepo.MarkLastMessageRead(ctx, chatID); err != nil {
			log.Error("mark last message read failed", "chatID", chatID, "err", err)
		}
	}

	s.hub.PublishToChat(chatID, gateway.EventMessageRead, gateway.MessageReadPayload{
		ChatID:     chatID,
		ReaderID:   userID,
		MessageIDs: msgIDs,
	}, "")
	return nil
}

// GetTotalUnread 全局未读数，给客户端角标用
func (s *chatServiceImpl) GetTotalUnread(ctx context.Context, userID uint64) (int64, error) {
	return s.chatRepo.GetTotalUnreadCount(ctx, userID)
}

// HideChat 从会话列表隐藏，下一条消息到达时自动浮现
func (s *chatServiceImpl) HideChat(ctx context.Context, userID, chatID uint64) error {
	return s.chatRepo.SetVisibility(ctx, chatID, userID, 0)
}

// UnhideChat 恢复隐藏的会话，未读数和摘要原样保留
func (s *chatServiceImpl) UnhideChat(ctx context.Context, userID, chatID uint64) error {
	return s.chatRepo.SetVisibility(ctx, chatID, userID, 1)
}

func (s *chatServiceImpl) SetChatPinned(ctx context.Context, userID, chatID uint64, pinned bool) error {
	var v int8
	if pinned {
		v = 1
	}
	return s.chatRepo.SetPinned(ctx, chatID, userID, v)
}

func (s *chatServiceImpl) SetChatMuted(ctx context.Context, userID, chatID uint64, muted bool) error {
	var v int8
	if muted {
		v = 1
	}
	return s.chatRepo.SetMuted(ctx, chatID, userID, v)
}

// EditMessage 编辑自己的消息并广播 message_updated
func (s *chatServiceImpl) EditMessage(ctx context.Context, userID uint64, msgID string, content string) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrMessageNotOwned
	}

	if err = s.messageRepo.SetEdited(ctx, msgID, userID, content); err != nil {
		if errors.Is(err, mongo.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	// 编辑的恰好是最后一条，同步刷新会话摘要
	chat, err := s.chatRepo.GetChat(ctx, msg.ChatID)
	if err == nil && chat.LastMsgID == msgID {
		last := model.LastMessage{
			MsgID:     msgID,
			Content:   buildPreview(msg.MsgType, content),
			MsgType:   msg.MsgType,
			SenderID:  msg.SenderID,
			CreatedAt: chat.LastMessageAt,
		}
		if err = s.chatRepo.SetLastMessage(ctx, msg.ChatID, last); err != nil {
			log.Error("refresh chat summary failed", "chatID", msg.ChatID, "err", err)
		}
	}

	updated, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return nil
	}
	s.hub.PublishToChat(msg.ChatID, gateway.EventMessageUpdated, s.toMessageDTO(updated), "")
	return nil
}

// DeleteMessage 软删除自己的消息；删的是最后一条时重算会话摘要
func (s *chatServiceImpl) DeleteMessage(ctx context.Context, userID uint64, msgID string) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrMessageNotOwned
	}

	if err = s.messageRepo.SetDeleted(ctx, msgID, userID); err != nil {
		if errors.Is(err, mongo.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	chat, err := s.chatRepo.GetChat(ctx, msg.ChatID)
	if err == nil && chat.LastMsgID == msgID {
		if err = s.refreshLastMessage(ctx, msg.ChatID); err != nil {
			log.Error("rebuild chat summary failed", "chatID", msg.ChatID, "err", err)
		}
	}

	s.hub.PublishToChat(msg.ChatID, gateway.EventMessageDeleted, map[string]interface{}{
		"chat_id":    msg.ChatID,
		"message_id": msgID,
	}, "")
	return nil
}

// ToggleReaction 表态开关并广播 reaction_changed
func (s *chatServiceImpl) ToggleReaction(ctx context.Context, userID uint64, msgID string, emoji string) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return ErrMessageNotFound
	}
	isMember, err := s.chatRepo.IsMember(ctx, msg.ChatID, userID)
	if err != nil || !isMember {
		return ErrNotChatMember
	}

	if _, err = s.messageRepo.ToggleReaction(ctx, msgID, userID, emoji); err != nil {
		if errors.Is(err, mongo.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	updated, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return nil
	}
	s.hub.PublishToChat(msg.ChatID, gateway.EventReactionChanged, s.toMessageDTO(updated), "")
	return nil
}

// SetMessagePinned 群管理员或消息作者可置顶
func (s *chatServiceImpl) SetMessagePinned(ctx context.Context, userID uint64, msgID string, pinned bool) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return ErrMessageNotFound
	}

	member, err := s.chatRepo.GetMember(ctx, msg.ChatID, userID)
	if err != nil {
		return ErrNotChatMember
	}
	if msg.SenderID != userID && !member.IsAdmin {
		return ErrMessageNotOwned
	}

	if err = s.messageRepo.SetPinned(ctx, msgID, pinned); err != nil {
		if errors.Is(err, mongo.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	updated, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		return nil
	}
	s.hub.PublishToChat(msg.ChatID, gateway.EventMessageUpdated, s.toMessageDTO(updated), "")
	return nil
}

func (s *chatServiceImpl) GetPinnedMessages(ctx context.Context, userID, chatID uint64) ([]*dto.MessageDTO, error) {
	isMember, err := s.chatRepo.IsMember(ctx, chatID, userID)
	if err != nil || !isMember {
		return nil, UnauthorizedError
	}

	models, err := s.messageRepo.GetPinned(ctx, chatID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, s.toMessageDTO(m))
	}
	return res, nil
}

func (s *chatServiceImpl) Close() {
	close(s.stopChan)
	s.wg.Wait()
	log.Info("ChatService shut down gracefully")
}

// refreshLastMessage 用最新一条未删除消息重建会话摘要
func (s *chatServiceImpl) refreshLastMessage(ctx context.Context, chatID uint64) error {
	latest, err := s.messageRepo.GetLatestVisible(ctx, chatID)
	if err != nil {
		return err
	}

	last := model.LastMessage{}
	if latest != nil {
		last = model.LastMessage{
			MsgID:     latest.ID.Hex(),
			Content:   buildPreview(latest.MsgType, latest.Content),
			MsgType:   latest.MsgType,
			SenderID:  latest.SenderID,
			CreatedAt: latest.CreatedAt,
		}
	}
	return s.chatRepo.SetLastMessage(ctx, chatID, last)
}

func (s *chatServiceImpl) calibrationWorker() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.retryChan:
			backoff := time.Second
			for i := 0; i < 3; i++ {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := s.messageRepo.Save(ctx, msg)
				cancel()
				if err == nil {
					break
				}
				time.Sleep(backoff)
				backoff *= 2
			}
		case <-s.stopChan:
			return
		}
	}
}

func (s *chatServiceImpl) toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	d := &dto.MessageDTO{
		ID:        m.ID.Hex(),
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		MsgType:   int(m.MsgType),
		Content:   m.Content,
		ReplyTo:   m.ReplyTo,
		IsEdited:  m.IsEdited,
		IsDeleted: m.IsDeleted,
		IsPinned:  m.IsPinned,
		CreatedAt: m.CreatedAt,
	}
	for _, a := range m.Attachments {
		d.Attachments = append(d.Attachments, dto.AttachmentDTO{
			MimeType: a.MimeType,
			URL:      a.MediaURL,
			FileName: a.FileName,
			Size:     a.Size,
			Width:    a.Width,
			Height:   a.Height,
			Duration: a.Duration,
		})
	}
	for _, r := range m.ReadBy {
		d.ReadBy = append(d.ReadBy, dto.ReadReceiptDTO{UserID: r.UserID, ReadAt: r.ReadAt})
	}
	for _, r := range m.Reactions {
		d.Reactions = append(d.Reactions, dto.ReactionDTO{UserID: r.UserID, Emoji: r.Emoji})
	}
	return d
}

func toAttachments(in []dto.AttachmentDTO) []mongo.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]mongo.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, mongo.Attachment{
			MimeType: a.MimeType,
			MediaURL: a.URL,
			FileName: a.FileName,
			Size:     a.Size,
			Width:    a.Width,
			Height:   a.Height,
			Duration: a.Duration,
		})
	}
	return out
}

// buildPreview 生成会话列表的最后一条预览
func buildPreview(msgType int8, content string) string {
	switch msgType {
	case consts.MsgTypeImage:
		return "[图片]"
	case consts.MsgTypeVoice:
		return "[语音]"
	case consts.MsgTypeFile:
		return "[文件]"
	}
	if len(content) > consts.LastMessagePreviewLen {
		// 按字节截断会切坏多字节字符，回退到 rune 边界
		cut := consts.LastMessagePreviewLen
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		return content[:cut]
	}
	return content
}

// buildPeerKey 单聊去重键，小 ID 在前
func buildPeerKey(a, b uint64) string {
	if a < b {
		return fmt.Sprintf("%d_%d", a, b)
	}
	return fmt.Sprintf("%d_%d", b, a)
}

func parsePeerID(peerKey string, currentUserID uint64) (uint64, error) {
	var u1, u2 uint64
	_, err := fmt.Sscanf(peerKey, "%d_%d", &u1, &u2)
	if err != nil {
		return 0, err
	}
	if u1 == currentUserID {
		return u2, nil
	}
	return u1, nil
}
