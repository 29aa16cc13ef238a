package gateway

import (
	"Murmur/internal/api/dto"
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserGateway struct {
	statuses []string
}

func (f *fakeUserGateway) AuthenticateSocket(ctx context.Context, token string) (uint64, error) {
	if token == "good" {
		return 1, nil
	}
	return 0, errors.New("bad token")
}

func (f *fakeUserGateway) SetUserStatus(ctx context.Context, userID uint64, status string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

type fakeChatGateway struct{}

func (f *fakeChatGateway) IsMember(ctx context.Context, chatID, userID uint64) (bool, error) {
	return chatID != 404, nil
}

func (f *fakeChatGateway) SendMessage(ctx context.Context, senderID uint64, senderSocketID string, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	return &dto.MessageDTO{}, nil
}

func newTestSession(h *Hub, id string, userID uint64) *Session {
	return &Session{
		id:     id,
		hub:    h,
		send:   make(chan []byte, 8),
		userID: userID,
		authed: true,
		joined: make(map[uint64]struct{}),
	}
}

func drainEvent(t *testing.T, s *Session) *Envelope {
	t.Helper()
	select {
	case payload := <-s.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		return &env
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func TestHubOnlineBroadcastOnFirstSocketOnly(t *testing.T) {
	users := &fakeUserGateway{}
	h := NewHub(8, time.Second)
	h.Bind(users, &fakeChatGateway{})

	watcher := newTestSession(h, "w", 2)
	h.rooms.Join(PresenceRoom, watcher)

	s1 := newTestSession(h, "s1", 1)
	h.handleOnline(s1)

	env := drainEvent(t, watcher)
	assert.Equal(t, EventUserStatusChange, env.Event)
	var p StatusChangePayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, uint64(1), p.UserID)
	assert.Equal(t, "online", p.Status)
	assert.Equal(t, []string{"online"}, users.statuses)

	// 同一用户的第二条连接不再广播
	s2 := newTestSession(h, "s2", 1)
	h.handleOnline(s2)

	select {
	case <-watcher.send:
		t.Fatal("second socket of same user must not re-broadcast online")
	default:
	}
	assert.Equal(t, []string{"online"}, users.statuses)
}

func TestHubOfflineOnlyAfterLastSocket(t *testing.T) {
	users := &fakeUserGateway{}
	h := NewHub(8, time.Second)
	h.Bind(users, &fakeChatGateway{})

	s1 := newTestSession(h, "s1", 1)
	s2 := newTestSession(h, "s2", 1)
	h.handleOnline(s1)
	h.handleOnline(s2)

	watcher := newTestSession(h, "w", 2)
	h.rooms.Join(PresenceRoom, watcher)

	h.handleOffline(s1)
	assert.True(t, h.IsOnline(1))
	select {
	case <-watcher.send:
		t.Fatal("offline must not broadcast while another socket is alive")
	default:
	}

	h.handleOffline(s2)
	assert.False(t, h.IsOnline(1))

	env := drainEvent(t, watcher)
	assert.Equal(t, EventUserStatusChange, env.Event)
	var p StatusChangePayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "offline", p.Status)
	assert.Equal(t, []string{"online", "offline"}, users.statuses)
}

func TestHubOfflineRemovesFromJoinedRooms(t *testing.T) {
	h := NewHub(8, time.Second)
	h.Bind(&fakeUserGateway{}, &fakeChatGateway{})

	s := newTestSession(h, "s1", 1)
	h.handleOnline(s)
	h.rooms.Join(ChatRoom(9), s)

	h.handleOffline(s)

	assert.Equal(t, 0, h.rooms.MemberCount(ChatRoom(9)))
	assert.Equal(t, 0, h.rooms.MemberCount(UserRoom(1)))
}

func TestHubPublishToUserReachesAllSockets(t *testing.T) {
	h := NewHub(8, time.Second)
	h.Bind(&fakeUserGateway{}, &fakeChatGateway{})

	s1 := newTestSession(h, "s1", 1)
	s2 := newTestSession(h, "s2", 1)
	h.handleOnline(s1)
	h.handleOnline(s2)

	h.PublishToUser(1, EventNotification, map[string]string{"content": "ping"})

	for _, s := range []*Session{s1, s2} {
		env := drainEvent(t, s)
		assert.Equal(t, EventNotification, env.Event)
	}
}

func TestSessionUnauthenticatedEventsSilentlyDropped(t *testing.T) {
	h := NewHub(8, time.Second)
	h.Bind(&fakeUserGateway{}, &fakeChatGateway{})

	s := &Session{id: "s", hub: h, send: make(chan []byte, 8), joined: make(map[uint64]struct{})}

	data, _ := json.Marshal(ChatRefPayload{ChatID: 1})
	s.dispatch(&Envelope{Event: EventJoinChat, Data: data})
	s.dispatch(&Envelope{Event: EventTypingStart, Data: data})

	select {
	case <-s.send:
		t.Fatal("unauthenticated events must be dropped without a reply")
	default:
	}
	assert.Equal(t, 0, h.rooms.MemberCount(ChatRoom(1)))
}

func TestSessionAuthenticateFlow(t *testing.T) {
	h := NewHub(8, time.Second)
	h.Bind(&fakeUserGateway{}, &fakeChatGateway{})

	s := &Session{id: "s", hub: h, send: make(chan []byte, 8), joined: make(map[uint64]struct{})}

	bad, _ := json.Marshal(AuthenticatePayload{Token: "bad"})
	s.dispatch(&Envelope{Event: EventAuthenticate, Data: bad})
	env := drainEvent(t, s)
	assert.Equal(t, EventError, env.Event)
	assert.False(t, s.authed)

	good, _ := json.Marshal(AuthenticatePayload{Token: "good"})
	s.dispatch(&Envelope{Event: EventAuthenticate, Data: good})
	env = drainEvent(t, s)
	require.Equal(t, EventAuthenticated, env.Event)

	var p AuthenticatedPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, uint64(1), p.UserID)
	assert.True(t, s.authed)
	assert.True(t, h.IsOnline(1))
}

func TestSessionJoinChatMembershipCheck(t *testing.T) {
	h := NewHub(8, time.Second)
	h.Bind(&fakeUserGateway{}, &fakeChatGateway{})

	s := newTestSession(h, "s", 1)

	data, _ := json.Marshal(ChatRefPayload{ChatID: 404})
	s.dispatch(&Envelope{Event: EventJoinChat, Data: data})
	env := drainEvent(t, s)
	assert.Equal(t, EventError, env.Event)
	assert.Equal(t, 0, h.rooms.MemberCount(ChatRoom(404)))

	data, _ = json.Marshal(ChatRefPayload{ChatID: 5})
	s.dispatch(&Envelope{Event: EventJoinChat, Data: data})
	assert.Equal(t, 1, h.rooms.MemberCount(ChatRoom(5)))
}

func TestSessionTypingRequiresJoinedRoom(t *testing.T) {
	h := NewHub(8, time.Second)
	h.Bind(&fakeUserGateway{}, &fakeChatGateway{})

	sender := newTestSession(h, "sender", 1)
	peer := newTestSession(h, "peer", 2)
	h.rooms.Join(ChatRoom(5), peer)

	data, _ := json.Marshal(ChatRefPayload{ChatID: 5})

	// 未 join 前打字事件被忽略
	sender.dispatch(&Envelope{Event: EventTypingStart, Data: data})
	select {
	case <-peer.send:
		t.Fatal("typing before join_chat must be ignored")
	default:
	}

	sender.dispatch(&Envelope{Event: EventJoinChat, Data: data})
	sender.dispatch(&Envelope{Event: EventTypingStart, Data: data})

	env := drainEvent(t, peer)
	assert.Equal(t, EventUserTyping, env.Event)
	var p UserTypingPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, uint64(1), p.UserID)
	assert.True(t, p.Typing)

	// 发起方自己的 socket 不回显
	select {
	case <-sender.send:
		t.Fatal("typing must not echo to the sender socket")
	default:
	}
}

func TestSessionAuthAfterCloseDoesNotRegister(t *testing.T) {
	users := &fakeUserGateway{}
	h := NewHub(8, time.Second)
	h.Bind(users, &fakeChatGateway{})

	// 写泵先触发收尾（心跳失败），认证结果随后才返回
	s := &Session{id: "s", hub: h, send: make(chan []byte, 8), joined: make(map[uint64]struct{})}
	s.markClosed()
	h.handleOffline(s)

	assert.False(t, s.completeAuth(1))
	assert.False(t, h.IsOnline(1))
	assert.Equal(t, 0, h.rooms.MemberCount(UserRoom(1)))
	assert.Equal(t, 0, h.rooms.MemberCount(PresenceRoom))
	assert.Empty(t, users.statuses)
}

func TestSessionCloseAfterAuthGoesOffline(t *testing.T) {
	users := &fakeUserGateway{}
	h := NewHub(8, time.Second)
	h.Bind(users, &fakeChatGateway{})

	s := &Session{id: "s", hub: h, send: make(chan []byte, 8), joined: make(map[uint64]struct{})}
	require.True(t, s.completeAuth(1))
	assert.True(t, h.IsOnline(1))

	s.markClosed()
	h.handleOffline(s)

	assert.False(t, h.IsOnline(1))
	assert.Equal(t, 0, h.rooms.MemberCount(UserRoom(1)))
	assert.Equal(t, []string{"online", "offline"}, users.statuses)
}
