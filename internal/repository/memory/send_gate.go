package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SendGate tracks which users have a message send in flight. A user may
// only have one pipeline run at a time; concurrent sends are rejected,
// never queued.
type SendGate struct {
	cache *cache.Cache
}

func NewSendGate() *SendGate {
	// Entries expire after 2 minutes as a safety net in case Release is
	// never reached (the reply gateway timeout is 60s).
	c := cache.New(2*time.Minute, 1*time.Minute)
	return &SendGate{
		cache: c,
	}
}

// TryAcquire marks the user as busy. Returns false when a send is
// already in flight for that user. Add is atomic, so two concurrent
// calls cannot both succeed.
func (g *SendGate) TryAcquire(userID uuid.UUID) bool {
	err := g.cache.Add(userID.String(), struct{}{}, cache.DefaultExpiration)
	return err == nil
}

func (g *SendGate) Release(userID uuid.UUID) {
	g.cache.Delete(userID.String())
}

// Busy reports whether a send is currently in flight for the user.
func (g *SendGate) Busy(userID uuid.UUID) bool {
	_, found := g.cache.Get(userID.String())
	return found
}
