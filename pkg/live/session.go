package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
)

// FieldUpdate is a state change of one mounted field.
type FieldUpdate struct {
	Field formdef.FieldDef
	State form.State
}

// Session is one mounted copy of a form, owned by one browser tab.
type Session struct {
	ID      uuid.UUID
	Form    *form.Form
	Mounted *formdef.Mounted

	feed      *Feed[FieldUpdate]
	onClose   func()
	mu        sync.Mutex
	lastSeen  time.Time
	closeOnce sync.Once
}

func newSession(f *form.Form, buffer int) *Session {
	return &Session{
		ID:       uuid.New(),
		Form:     f,
		feed:     NewFeed[FieldUpdate](buffer),
		lastSeen: time.Now(),
	}
}

// Updates streams field state changes until ctx is done or the session
// closes.
func (s *Session) Updates(ctx context.Context) <-chan FieldUpdate {
	return s.feed.Subscribe(ctx)
}

func (s *Session) publish(fd formdef.FieldDef, st form.State) {
	s.feed.Publish(FieldUpdate{Field: fd, State: st})
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Close unmounts every field and ends all update streams.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.Mounted != nil {
			s.Mounted.Close()
		}
		s.feed.Close()
		if s.onClose != nil {
			s.onClose()
		}
	})
}
