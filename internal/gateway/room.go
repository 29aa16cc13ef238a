package gateway

import "sync"

// subscriber 房间成员的最小投递面，Session 实现之
type subscriber interface {
	ID() string
	// Deliver 非阻塞投递，缓冲满返回 false
	Deliver(payload []byte) bool
}

// RoomTable 房间表：房间名 -> socketID -> 订阅者。
// 投递永不阻塞发布方，慢消费者的帧直接丢弃。
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[string]map[string]subscriber
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[string]map[string]subscriber)}
}

func (r *RoomTable) Join(room string, sub subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]subscriber)
		r.rooms[room] = members
	}
	members[sub.ID()] = sub
}

func (r *RoomTable) Leave(room string, socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, socketID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// LeaveAll 连接关闭时把 socket 从所有房间摘除
func (r *RoomTable) LeaveAll(socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room, members := range r.rooms {
		delete(members, socketID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Publish 向房间广播，excludeSocket 用于排除发起方自己的连接，
// 返回实际投递成功的连接数
func (r *RoomTable) Publish(room string, payload []byte, excludeSocket string) int {
	r.mu.RLock()
	subs := make([]subscriber, 0, len(r.rooms[room]))
	for id, sub := range r.rooms[room] {
		if id == excludeSocket {
			continue
		}
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if sub.Deliver(payload) {
			delivered++
		}
	}
	return delivered
}

// MemberCount 房间内连接数
func (r *RoomTable) MemberCount(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}
