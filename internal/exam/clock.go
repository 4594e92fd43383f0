package exam

import (
	"log"
	"sync"
	"time"
)

// Clock auto-finalizes sessions when their time budget runs out. Each
// watched session gets one timer; firing and stopping are mutually
// exclusive through sync.Once, so the engine's Finalize is invoked at
// most once per session from the clock.
type Clock struct {
	engine *Engine

	mu     sync.Mutex
	timers map[string]*watchedSession
}

type watchedSession struct {
	timer *time.Timer
	once  sync.Once
}

func NewClock(engine *Engine) *Clock {
	return &Clock{
		engine: engine,
		timers: make(map[string]*watchedSession),
	}
}

// Watch arms the auto-submit timer for a session. An expired or zero
// budget fires immediately.
func (c *Clock) Watch(sessionID string, d time.Duration) {
	if d < 0 {
		d = 0
	}

	w := &watchedSession{}
	w.timer = time.AfterFunc(d, func() {
		w.once.Do(func() {
			c.expire(sessionID)
		})
	})

	c.mu.Lock()
	c.timers[sessionID] = w
	c.mu.Unlock()
}

// Stop disarms the timer after a manual finalize. Stopping a session
// that was never watched, or whose timer already fired, is a no-op.
func (c *Clock) Stop(sessionID string) {
	c.mu.Lock()
	w, ok := c.timers[sessionID]
	delete(c.timers, sessionID)
	c.mu.Unlock()
	if !ok {
		return
	}
	w.once.Do(func() {
		w.timer.Stop()
	})
}

func (c *Clock) expire(sessionID string) {
	c.mu.Lock()
	delete(c.timers, sessionID)
	c.mu.Unlock()

	// Finalize with no extra answers: whatever was recorded in-session
	// counts. A session the user already submitted just returns its
	// stored result here.
	if _, err := c.engine.Finalize(sessionID, nil, time.Now().UTC()); err != nil {
		log.Printf("WARN: auto-submit session %s: %v", sessionID, err)
	}
}
