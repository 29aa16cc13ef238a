package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSub 可控投递结果的房间成员
type fakeSub struct {
	id     string
	frames [][]byte
	full   bool
}

func (f *fakeSub) ID() string { return f.id }

func (f *fakeSub) Deliver(payload []byte) bool {
	if f.full {
		return false
	}
	f.frames = append(f.frames, payload)
	return true
}

func TestRoomPublishExcludesSender(t *testing.T) {
	r := NewRoomTable()
	a := &fakeSub{id: "a"}
	b := &fakeSub{id: "b"}
	r.Join("chat:1", a)
	r.Join("chat:1", b)

	n := r.Publish("chat:1", []byte("hi"), "a")

	assert.Equal(t, 1, n)
	assert.Empty(t, a.frames, "sender socket must not receive its own echo")
	assert.Len(t, b.frames, 1)
}

func TestRoomPublishDropsSlowConsumer(t *testing.T) {
	r := NewRoomTable()
	slow := &fakeSub{id: "slow", full: true}
	fast := &fakeSub{id: "fast"}
	r.Join("chat:1", slow)
	r.Join("chat:1", fast)

	n := r.Publish("chat:1", []byte("x"), "")

	assert.Equal(t, 1, n, "full buffer frames are dropped, not retried")
	assert.Len(t, fast.frames, 1)
}

func TestRoomLeaveAllRemovesFromEveryRoom(t *testing.T) {
	r := NewRoomTable()
	s := &fakeSub{id: "s"}
	r.Join("chat:1", s)
	r.Join("chat:2", s)
	r.Join(PresenceRoom, s)

	r.LeaveAll("s")

	assert.Equal(t, 0, r.MemberCount("chat:1"))
	assert.Equal(t, 0, r.MemberCount("chat:2"))
	assert.Equal(t, 0, r.MemberCount(PresenceRoom))
	assert.Equal(t, 0, r.Publish("chat:1", []byte("x"), ""))
}

func TestRoomPublishToEmptyRoom(t *testing.T) {
	r := NewRoomTable()
	assert.Equal(t, 0, r.Publish("chat:404", []byte("x"), ""))
}

func TestRoomRejoinIsIdempotent(t *testing.T) {
	r := NewRoomTable()
	s := &fakeSub{id: "s"}
	r.Join("chat:1", s)
	r.Join("chat:1", s)

	assert.Equal(t, 1, r.MemberCount("chat:1"))
	assert.Equal(t, 1, r.Publish("chat:1", []byte("x"), ""))
	assert.Len(t, s.frames, 1, "re-join must not duplicate delivery")
}
