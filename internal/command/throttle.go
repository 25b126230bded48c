package command

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits how fast a single actor can issue commands.
type Throttle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	limiters map[string]*actorLimiter
	now      func() time.Time
}

type actorLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows perSecond commands per actor with the given burst.
func NewThrottle(perSecond float64, burst int) *Throttle {
	return &Throttle{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		limiters: make(map[string]*actorLimiter),
		now:      time.Now,
	}
}

// Allow consumes one token for actorID.
func (t *Throttle) Allow(actorID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	al, ok := t.limiters[actorID]
	if !ok {
		if len(t.limiters) >= 1024 {
			t.evictIdle(now)
		}
		al = &actorLimiter{lim: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[actorID] = al
	}
	al.lastSeen = now
	return al.lim.AllowN(now, 1)
}

func (t *Throttle) evictIdle(now time.Time) {
	for id, al := range t.limiters {
		if now.Sub(al.lastSeen) > t.idle {
			delete(t.limiters, id)
		}
	}
}
