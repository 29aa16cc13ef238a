package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/gateway"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/mongo"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// ---- 桩实现：只记录调用，不做真实存储 ----

type stubChatRepo struct {
	chat        *model.Chat
	member      *model.ChatMember
	isMember    bool
	peerKeyChat *model.Chat
	memberList  []*model.ChatMember
	memberCount int64
	totalUnread int64

	createdChat    *model.Chat
	createdMembers []*model.ChatMember
	appliedChatID  uint64
	appliedSender  uint64
	appliedLast    *model.LastMessage
	resetCalls     [][2]uint64
	markReadCalls  []uint64
	setLastCalls   []model.LastMessage
	addedMembers   []uint64
	removedCalls   [][2]uint64
	deletedChats   []uint64
	visibility     []int8
}

func (s *stubChatRepo) CreateChat(_ context.Context, chat *model.Chat, members []*model.ChatMember) error {
	chat.ID = 101
	s.createdChat = chat
	s.createdMembers = members
	return nil
}

func (s *stubChatRepo) GetChat(_ context.Context, _ uint64) (*model.Chat, error) {
	if s.chat == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.chat, nil
}

func (s *stubChatRepo) GetChatByPeerKey(_ context.Context, _ string) (*model.Chat, error) {
	if s.peerKeyChat == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.peerKeyChat, nil
}

func (s *stubChatRepo) IsMember(_ context.Context, _, _ uint64) (bool, error) {
	return s.isMember, nil
}

func (s *stubChatRepo) GetMember(_ context.Context, _, _ uint64) (*model.ChatMember, error) {
	if s.member == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.member, nil
}

func (s *stubChatRepo) GetMemberIDs(_ context.Context, _ uint64) ([]uint64, error) {
	return nil, nil
}

func (s *stubChatRepo) AddMembers(_ context.Context, _ uint64, userIDs []uint64) error {
	s.addedMembers = append(s.addedMembers, userIDs...)
	return nil
}

func (s *stubChatRepo) RemoveMember(_ context.Context, chatID, userID uint64) error {
	s.removedCalls = append(s.removedCalls, [2]uint64{chatID, userID})
	return nil
}

func (s *stubChatRepo) CountMembers(_ context.Context, _ uint64) (int64, error) {
	return s.memberCount, nil
}

func (s *stubChatRepo) DeleteChat(_ context.Context, chatID uint64) error {
	s.deletedChats = append(s.deletedChats, chatID)
	return nil
}

func (s *stubChatRepo) ApplyNewMessage(_ context.Context, chatID, senderID uint64, last model.LastMessage) error {
	s.appliedChatID = chatID
	s.appliedSender = senderID
	s.appliedLast = &last
	return nil
}

func (s *stubChatRepo) ResetUnread(_ context.Context, chatID, userID uint64) error {
	s.resetCalls = append(s.resetCalls, [2]uint64{chatID, userID})
	return nil
}

func (s *stubChatRepo) MarkLastMessageRead(_ context.Context, chatID uint64) error {
	s.markReadCalls = append(s.markReadCalls, chatID)
	return nil
}

func (s *stubChatRepo) SetLastMessage(_ context.Context, _ uint64, last model.LastMessage) error {
	s.setLastCalls = append(s.setLastCalls, last)
	return nil
}

func (s *stubChatRepo) SetVisibility(_ context.Context, _, _ uint64, visible int8) error {
	s.visibility = append(s.visibility, visible)
	return nil
}

func (s *stubChatRepo) SetPinned(_ context.Context, _, _ uint64, _ int8) error { return nil }
func (s *stubChatRepo) SetMuted(_ context.Context, _, _ uint64, _ int8) error  { return nil }

func (s *stubChatRepo) GetUserChatMemList(_ context.Context, _ uint64) ([]*model.ChatMember, error) {
	return s.memberList, nil
}

func (s *stubChatRepo) GetTotalUnreadCount(_ context.Context, _ uint64) (int64, error) {
	return s.totalUnread, nil
}

type stubMessageRepo struct {
	saveErr    error
	saved      []*mongo.Message
	byID       map[string]*mongo.Message
	receiptIDs []string
	latest     *mongo.Message
	edited     []string
	deleted    []string
	pinnedIDs  []string
}

func (s *stubMessageRepo) Save(_ context.Context, msg *mongo.Message) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	s.saved = append(s.saved, msg)
	return nil
}

func (s *stubMessageRepo) GetByID(_ context.Context, id string) (*mongo.Message, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, mongo.ErrMessageNotFound
}

func (s *stubMessageRepo) GetHistory(_ context.Context, _ uint64, _ string, _ int64) ([]*mongo.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) AddReadReceipts(_ context.Context, _, _ uint64, _ time.Time) ([]string, error) {
	return s.receiptIDs, nil
}

func (s *stubMessageRepo) ToggleReaction(_ context.Context, _ string, _ uint64, _ string) (bool, error) {
	return false, nil
}

func (s *stubMessageRepo) SetEdited(_ context.Context, msgID string, _ uint64, _ string) error {
	s.edited = append(s.edited, msgID)
	return nil
}

func (s *stubMessageRepo) SetDeleted(_ context.Context, msgID string, _ uint64) error {
	s.deleted = append(s.deleted, msgID)
	return nil
}

func (s *stubMessageRepo) SetPinned(_ context.Context, msgID string, _ bool) error {
	s.pinnedIDs = append(s.pinnedIDs, msgID)
	return nil
}

func (s *stubMessageRepo) GetPinned(_ context.Context, _ uint64) ([]*mongo.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) GetLatestVisible(_ context.Context, _ uint64) (*mongo.Message, error) {
	return s.latest, nil
}

func (s *stubMessageRepo) CountAfter(_ context.Context, _ uint64, _ time.Time) (int64, error) {
	return 0, nil
}

type stubUserRepo struct {
	users map[uint64]*model.User
}

func (s *stubUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	return s.users[id], nil
}

func (s *stubUserRepo) GetUserByIds(_ context.Context, _ []uint64) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetUserByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetUserByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetUserHomeInfoById(_ context.Context, _ uint64) (*model.UserDetail, error) {
	return nil, nil
}
func (s *stubUserRepo) GetUserSimpleInfoByIds(_ context.Context, _ []uint64) ([]*model.UserDetail, error) {
	return nil, nil
}
func (s *stubUserRepo) CreateUser(_ context.Context, _ *model.User, _ *model.UserDetail) error {
	return nil
}
func (s *stubUserRepo) UpdateUser(_ context.Context, _ *model.User) error { return nil }
func (s *stubUserRepo) UpdateUserIsBan(_ context.Context, _ uint64, _ bool) (int64, error) {
	return 0, nil
}
func (s *stubUserRepo) UpdateUserDetail(_ context.Context, _ *model.UserDetail) error { return nil }
func (s *stubUserRepo) UpdateUserStatus(_ context.Context, _ uint64, _ string, _ time.Time) error {
	return nil
}
func (s *stubUserRepo) GetUserStatuses(_ context.Context, _ []uint64) (map[uint64]string, error) {
	return map[uint64]string{}, nil
}
func (s *stubUserRepo) DeleteUser(_ context.Context, _ uint64) error { return nil }

type stubAnalytics struct {
	events []string
}

func (s *stubAnalytics) Track(_ context.Context, eventType string, _ uint64, _ map[string]string) {
	s.events = append(s.events, eventType)
}

func newTestChatService(chatRepo *stubChatRepo, msgRepo *stubMessageRepo, userRepo *stubUserRepo) (ChatService, *stubAnalytics) {
	analytics := &stubAnalytics{}
	hub := gateway.NewHub(0, 0)
	return NewChatService(chatRepo, msgRepo, userRepo, hub, analytics), analytics
}

func TestSendMessageAppliesSummaryAndUnread(t *testing.T) {
	chatRepo := &stubChatRepo{isMember: true}
	msgRepo := &stubMessageRepo{}
	svc, analytics := newTestChatService(chatRepo, msgRepo, &stubUserRepo{})
	defer svc.Close()

	got, err := svc.SendMessage(context.Background(), 1, "sock-1", &dto.SendMessageReq{
		ChatID:  7,
		MsgType: int(consts.MsgTypeText),
		Content: "hello",
	})
	require.NoError(t, err)
	require.Len(t, msgRepo.saved, 1)

	assert.Equal(t, uint64(7), chatRepo.appliedChatID)
	assert.Equal(t, uint64(1), chatRepo.appliedSender)
	require.NotNil(t, chatRepo.appliedLast)
	assert.Equal(t, msgRepo.saved[0].ID.Hex(), chatRepo.appliedLast.MsgID)
	assert.Equal(t, "hello", chatRepo.appliedLast.Content)
	assert.Equal(t, got.ID, chatRepo.appliedLast.MsgID)
	assert.Contains(t, analytics.events, EventMessageSent)
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	chatRepo := &stubChatRepo{isMember: false}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	_, err := svc.SendMessage(context.Background(), 1, "", &dto.SendMessageReq{
		ChatID:  7,
		MsgType: int(consts.MsgTypeText),
	})
	assert.ErrorIs(t, err, ErrNotChatMember)
	assert.Nil(t, chatRepo.appliedLast)
}

func TestSendMessageLazyCreatesDirectChat(t *testing.T) {
	chatRepo := &stubChatRepo{}
	userRepo := &stubUserRepo{users: map[uint64]*model.User{2: {ID: 2}}}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, userRepo)
	defer svc.Close()

	got, err := svc.SendMessage(context.Background(), 1, "", &dto.SendMessageReq{
		TargetUserID: 2,
		MsgType:      int(consts.MsgTypeText),
		Content:      "hi",
	})
	require.NoError(t, err)

	require.NotNil(t, chatRepo.createdChat)
	assert.Equal(t, consts.ChatKindDirect, chatRepo.createdChat.Kind)
	require.NotNil(t, chatRepo.createdChat.PeerKey)
	assert.Equal(t, "1_2", *chatRepo.createdChat.PeerKey)
	assert.Len(t, chatRepo.createdMembers, 2)
	assert.Equal(t, uint64(101), got.ChatID)
}

func TestSendMessageNonTextPreview(t *testing.T) {
	chatRepo := &stubChatRepo{isMember: true}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	_, err := svc.SendMessage(context.Background(), 1, "", &dto.SendMessageReq{
		ChatID:  7,
		MsgType: int(consts.MsgTypeImage),
		Attachments: []dto.AttachmentDTO{
			{MimeType: "image/png", URL: "http://x/1.png"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "[图片]", chatRepo.appliedLast.Content)
}

func TestSendMessageMongoFailureGoesToRetryQueue(t *testing.T) {
	chatRepo := &stubChatRepo{isMember: true}
	msgRepo := &stubMessageRepo{saveErr: assert.AnError}
	svc, _ := newTestChatService(chatRepo, msgRepo, &stubUserRepo{})

	_, err := svc.SendMessage(context.Background(), 1, "", &dto.SendMessageReq{
		ChatID:  7,
		MsgType: int(consts.MsgTypeText),
		Content: "x",
	})
	require.NoError(t, err)
	// MySQL 侧照常收敛，消息进重试队列
	assert.NotNil(t, chatRepo.appliedLast)
	svc.Close()
}

func TestMarkAsReadResetsAndAcksLast(t *testing.T) {
	chatRepo := &stubChatRepo{
		isMember: true,
		chat:     &model.Chat{ID: 7, LastSenderID: 2},
	}
	msgRepo := &stubMessageRepo{receiptIDs: []string{"a", "b"}}
	svc, _ := newTestChatService(chatRepo, msgRepo, &stubUserRepo{})
	defer svc.Close()

	err := svc.MarkAsRead(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, [][2]uint64{{7, 1}}, chatRepo.resetCalls)
	assert.Equal(t, []uint64{7}, chatRepo.markReadCalls)
}

func TestMarkAsReadOwnLastMessageSkipsAck(t *testing.T) {
	chatRepo := &stubChatRepo{
		isMember: true,
		chat:     &model.Chat{ID: 7, LastSenderID: 1},
	}
	msgRepo := &stubMessageRepo{receiptIDs: []string{"a"}}
	svc, _ := newTestChatService(chatRepo, msgRepo, &stubUserRepo{})
	defer svc.Close()

	require.NoError(t, svc.MarkAsRead(context.Background(), 1, 7))
	assert.Empty(t, chatRepo.markReadCalls)
}

func TestMarkAsReadNothingNewStillResets(t *testing.T) {
	chatRepo := &stubChatRepo{
		isMember: true,
		chat:     &model.Chat{ID: 7, LastSenderID: 2},
	}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	require.NoError(t, svc.MarkAsRead(context.Background(), 1, 7))
	assert.Equal(t, [][2]uint64{{7, 1}}, chatRepo.resetCalls)
	assert.Empty(t, chatRepo.markReadCalls)
}

func TestDeleteMessageRebuildsSummaryWhenLast(t *testing.T) {
	msgID := primitive.NewObjectID()
	latest := &mongo.Message{
		ID:       primitive.NewObjectID(),
		ChatID:   7,
		SenderID: 2,
		MsgType:  consts.MsgTypeText,
		Content:  "earlier",
	}
	chatRepo := &stubChatRepo{
		isMember: true,
		chat:     &model.Chat{ID: 7, LastMsgID: msgID.Hex()},
	}
	msgRepo := &stubMessageRepo{
		byID: map[string]*mongo.Message{
			msgID.Hex(): {ID: msgID, ChatID: 7, SenderID: 1},
		},
		latest: latest,
	}
	svc, _ := newTestChatService(chatRepo, msgRepo, &stubUserRepo{})
	defer svc.Close()

	require.NoError(t, svc.DeleteMessage(context.Background(), 1, msgID.Hex()))

	assert.Equal(t, []string{msgID.Hex()}, msgRepo.deleted)
	require.Len(t, chatRepo.setLastCalls, 1)
	assert.Equal(t, latest.ID.Hex(), chatRepo.setLastCalls[0].MsgID)
	assert.Equal(t, "earlier", chatRepo.setLastCalls[0].Content)
}

func TestDeleteMessageRejectsOtherSender(t *testing.T) {
	msgID := primitive.NewObjectID()
	msgRepo := &stubMessageRepo{
		byID: map[string]*mongo.Message{
			msgID.Hex(): {ID: msgID, ChatID: 7, SenderID: 2},
		},
	}
	svc, _ := newTestChatService(&stubChatRepo{isMember: true}, msgRepo, &stubUserRepo{})
	defer svc.Close()

	err := svc.DeleteMessage(context.Background(), 1, msgID.Hex())
	assert.ErrorIs(t, err, ErrMessageNotOwned)
	assert.Empty(t, msgRepo.deleted)
}

func TestLeaveChatDeletesEmptiedChat(t *testing.T) {
	chatRepo := &stubChatRepo{isMember: true, memberCount: 0}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	require.NoError(t, svc.LeaveChat(context.Background(), 1, 7))
	assert.Equal(t, [][2]uint64{{7, 1}}, chatRepo.removedCalls)
	assert.Equal(t, []uint64{7}, chatRepo.deletedChats)
}

func TestRemoveMemberRequiresAdmin(t *testing.T) {
	chatRepo := &stubChatRepo{
		chat:     &model.Chat{ID: 7, Kind: consts.ChatKindGroup},
		member:   &model.ChatMember{ChatID: 7, UserID: 1, IsAdmin: false},
		isMember: true,
	}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	err := svc.RemoveMember(context.Background(), 1, 7, 2)
	assert.ErrorIs(t, err, ErrNotChatAdmin)
	assert.Empty(t, chatRepo.removedCalls)

	chatRepo.member.IsAdmin = true
	require.NoError(t, svc.RemoveMember(context.Background(), 1, 7, 2))
	assert.Equal(t, [][2]uint64{{7, 2}}, chatRepo.removedCalls)
}

func TestHideAndUnhideChat(t *testing.T) {
	chatRepo := &stubChatRepo{}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	require.NoError(t, svc.HideChat(context.Background(), 1, 7))
	require.NoError(t, svc.UnhideChat(context.Background(), 1, 7))
	assert.Equal(t, []int8{0, 1}, chatRepo.visibility)
}

func TestCreateGroupChatDedupsCreator(t *testing.T) {
	chatRepo := &stubChatRepo{}
	svc, _ := newTestChatService(chatRepo, &stubMessageRepo{}, &stubUserRepo{})
	defer svc.Close()

	id, err := svc.CreateGroupChat(context.Background(), 1, &dto.CreateGroupChatReq{
		Name:      "group",
		MemberIDs: []uint64{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(101), id)

	require.Len(t, chatRepo.createdMembers, 3)
	assert.True(t, chatRepo.createdMembers[0].IsAdmin)
	assert.Equal(t, uint64(1), chatRepo.createdMembers[0].UserID)
}

func TestPeerKeyOrdering(t *testing.T) {
	assert.Equal(t, "3_9", buildPeerKey(9, 3))
	assert.Equal(t, "3_9", buildPeerKey(3, 9))

	peer, err := parsePeerID("3_9", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), peer)

	peer, err = parsePeerID("3_9", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), peer)
}

func TestBuildPreviewTruncates(t *testing.T) {
	long := make([]byte, consts.LastMessagePreviewLen+50)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, buildPreview(consts.MsgTypeText, string(long)), consts.LastMessagePreviewLen)
	assert.Equal(t, "[语音]", buildPreview(consts.MsgTypeVoice, ""))
}

func TestBuildPreviewKeepsValidUTF8(t *testing.T) {
	// 截断点落在多字节字符中间时不能产生坏编码，
	// 否则严格模式下 utf8mb4 列会拒绝写入
	content := "a" + strings.Repeat("你", 100)
	preview := buildPreview(consts.MsgTypeText, content)

	assert.True(t, utf8.ValidString(preview))
	assert.LessOrEqual(t, len(preview), consts.LastMessagePreviewLen)
	assert.True(t, strings.HasPrefix(content, preview))
	// 边界前的完整字符要尽量保留
	assert.Equal(t, 1+84*3, len(preview))
}
