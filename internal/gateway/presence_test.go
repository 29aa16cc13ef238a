package gateway

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceRegisterFirstSocket(t *testing.T) {
	p := NewPresenceTable()

	assert.False(t, p.IsOnline(1))
	assert.True(t, p.Register(1, "s1"), "first socket should flip user online")
	assert.True(t, p.IsOnline(1))
	assert.Equal(t, 1, p.OnlineCount())
}

func TestPresenceSecondSocketNoTransition(t *testing.T) {
	p := NewPresenceTable()

	p.Register(1, "s1")
	assert.False(t, p.Register(1, "s2"), "second socket must not re-announce online")
	assert.Len(t, p.Sockets(1), 2)
}

func TestPresenceOfflineOnlyWhenLastSocketGone(t *testing.T) {
	p := NewPresenceTable()

	p.Register(1, "s1")
	p.Register(1, "s2")

	assert.False(t, p.Unregister(1, "s1"), "user still has a live socket")
	assert.True(t, p.IsOnline(1))

	assert.True(t, p.Unregister(1, "s2"), "last socket should flip user offline")
	assert.False(t, p.IsOnline(1))
	assert.Equal(t, 0, p.OnlineCount())
}

func TestPresenceUnregisterUnknown(t *testing.T) {
	p := NewPresenceTable()

	assert.False(t, p.Unregister(42, "ghost"))

	p.Register(1, "s1")
	assert.False(t, p.Unregister(1, "ghost"), "unknown socket must not flip state")
	assert.True(t, p.IsOnline(1))
}

func TestPresenceConcurrentChurn(t *testing.T) {
	p := NewPresenceTable()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sock := fmt.Sprintf("s%d", n)
			p.Register(7, sock)
			p.Unregister(7, sock)
		}(i)
	}
	wg.Wait()

	assert.False(t, p.IsOnline(7))
	assert.Equal(t, 0, p.OnlineCount())
}
