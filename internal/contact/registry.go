package contact

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry keeps one Controller per browser session.
type Registry struct {
	sender Sender
	opts   Options

	mu       sync.Mutex
	sessions map[string]*Controller
}

// NewRegistry returns an empty registry whose controllers share sender and opts.
func NewRegistry(sender Sender, opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Registry{
		sender:   sender,
		opts:     opts,
		sessions: make(map[string]*Controller),
	}
}

// NewSessionID mints a random session id.
func (r *Registry) NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id has the shape NewSessionID produces.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Lookup returns the controller for id without creating one.
func (r *Registry) Lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[id]
	return c, ok
}

// Get returns the controller for id, creating it on first use. When the
// registry is full the least recently used session that is not submitting
// is closed to make room.
func (r *Registry) Get(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sessions[id]; ok {
		return c
	}
	if r.opts.MaxSessions > 0 && len(r.sessions) >= r.opts.MaxSessions {
		r.evictOldestLocked()
	}
	opts := r.opts
	opts.Logger = r.opts.Logger.With(zap.String("session", shortID(id)))
	c := NewController(r.sender, opts)
	r.sessions[id] = c
	return c
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, c := range r.sessions {
		if c.Status() == StatusSubmitting {
			continue
		}
		if seen := c.IdleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID == "" {
		return
	}
	r.sessions[oldestID].Close()
	delete(r.sessions, oldestID)
	r.opts.Logger.Debug("evicted contact session", zap.String("session", shortID(oldestID)))
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes controllers idle for longer than maxIdle and returns how many
// were removed. A controller mid-submission is kept.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.opts.Clock.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, c := range r.sessions {
		if c.Status() == StatusSubmitting || c.IdleSince().After(cutoff) {
			continue
		}
		c.Close()
		delete(r.sessions, id)
		removed++
	}
	if removed > 0 {
		r.opts.Logger.Debug("swept idle contact sessions", zap.Int("removed", removed))
	}
	return removed
}

// Close discards every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.sessions {
		c.Close()
		delete(r.sessions, id)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
