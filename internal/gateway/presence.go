package gateway

import "sync"

// PresenceTable 在线表：用户 -> 活跃 socket 集合。
// 一个用户可以多端同时在线，只有集合清空才算真正下线。
type PresenceTable struct {
	mu    sync.RWMutex
	users map[uint64]map[string]struct{}
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{users: make(map[uint64]map[string]struct{})}
}

// Register 登记一个 socket，返回用户是否由离线转为在线
func (p *PresenceTable) Register(userID uint64, socketID string) (cameOnline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.users[userID]
	if !ok {
		set = make(map[string]struct{})
		p.users[userID] = set
	}
	cameOnline = len(set) == 0
	set[socketID] = struct{}{}
	return cameOnline
}

// Unregister 注销一个 socket，返回用户是否由在线转为离线
func (p *PresenceTable) Unregister(userID uint64, socketID string) (wentOffline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.users[userID]
	if !ok {
		return false
	}
	delete(set, socketID)
	if len(set) == 0 {
		delete(p.users, userID)
		return true
	}
	return false
}

func (p *PresenceTable) IsOnline(userID uint64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users[userID]) > 0
}

// Sockets 返回用户当前的 socket 快照
func (p *PresenceTable) Sockets(userID uint64) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set := p.users[userID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// OnlineCount 当前在线用户数
func (p *PresenceTable) OnlineCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users)
}
