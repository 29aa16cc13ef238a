package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ChatHandler 会话与消息的 REST 面，实时面走 WebSocket
type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

func (s *ChatHandler) GetChatList(c *gin.Context) {
	userId := c.GetUint64("user_id")

	list, err := s.chatSvc.GetChatList(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// CreateDirectChat 获取或创建与目标用户的单聊
func (s *ChatHandler) CreateDirectChat(c *gin.Context) {
	userId := c.GetUint64("user_id")
	targetId, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	chatId, err := s.chatSvc.GetOrCreateDirectChat(c.Request.Context(), userId, targetId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"chat_id": chatId})
}

func (s *ChatHandler) CreateGroupChat(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var req dto.CreateGroupChatReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	chatId, err := s.chatSvc.CreateGroupChat(c.Request.Context(), userId, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"chat_id": chatId})
}

// SendMessage REST 兜底发消息入口，没有 socket 回显排除
func (s *ChatHandler) SendMessage(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var req dto.SendMessageReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	msg, err := s.chatSvc.SendMessage(c.Request.Context(), userId, "", &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *ChatHandler) GetHistory(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.HistoryReq
	if err = c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	msgs, err := s.chatSvc.GetChatHistory(c.Request.Context(), userId, chatId, req.Cursor, req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msgs)
}

func (s *ChatHandler) MarkAsRead(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.MarkAsRead(c.Request.Context(), userId, chatId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) GetUnreadSummary(c *gin.Context) {
	userId := c.GetUint64("user_id")

	total, err := s.chatSvc.GetTotalUnread(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.UnreadSummaryDTO{TotalUnread: total})
}

func (s *ChatHandler) AddMembers(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.AddMembersReq
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = s.chatSvc.AddMembers(c.Request.Context(), userId, chatId, req.UserIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveMember 管理员从群聊移除成员
func (s *ChatHandler) RemoveMember(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	targetId, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.RemoveMember(c.Request.Context(), userId, chatId, targetId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) LeaveChat(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.LeaveChat(c.Request.Context(), userId, chatId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) HideChat(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.HideChat(c.Request.Context(), userId, chatId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) UnhideChat(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.UnhideChat(c.Request.Context(), userId, chatId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) PinChat(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	pinned := c.DefaultQuery("on", "true") == "true"

	if err = s.chatSvc.SetChatPinned(c.Request.Context(), userId, chatId, pinned); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) MuteChat(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	muted := c.DefaultQuery("on", "true") == "true"

	if err = s.chatSvc.SetChatMuted(c.Request.Context(), userId, chatId, muted); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) EditMessage(c *gin.Context) {
	userId := c.GetUint64("user_id")
	msgId := c.Param("message_id")

	var req dto.EditMessageReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.chatSvc.EditMessage(c.Request.Context(), userId, msgId, req.Content); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) DeleteMessage(c *gin.Context) {
	userId := c.GetUint64("user_id")
	msgId := c.Param("message_id")

	if err := s.chatSvc.DeleteMessage(c.Request.Context(), userId, msgId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) ToggleReaction(c *gin.Context) {
	userId := c.GetUint64("user_id")
	msgId := c.Param("message_id")

	var req dto.ReactionReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.chatSvc.ToggleReaction(c.Request.Context(), userId, msgId, req.Emoji); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) PinMessage(c *gin.Context) {
	userId := c.GetUint64("user_id")
	msgId := c.Param("message_id")

	if err := s.chatSvc.SetMessagePinned(c.Request.Context(), userId, msgId, true); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) UnpinMessage(c *gin.Context) {
	userId := c.GetUint64("user_id")
	msgId := c.Param("message_id")

	if err := s.chatSvc.SetMessagePinned(c.Request.Context(), userId, msgId, false); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChatHandler) GetPinnedMessages(c *gin.Context) {
	userId := c.GetUint64("user_id")
	chatId, err := strconv.ParseUint(c.Param("chat_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	msgs, err := s.chatSvc.GetPinnedMessages(c.Request.Context(), userId, chatId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msgs)
}
