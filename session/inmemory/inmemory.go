package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/session"
)

type entry struct {
	sess      session.Session
	expiresAt time.Time
}

// Store keeps sessions in process memory. Suitable for single-instance
// deployments and tests.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{sessions: make(map[string]entry), ttl: ttl}
}

func (store *Store) Ensure(ctx context.Context, id string) (session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if id != "" {
		if e, ok := store.sessions[id]; ok && time.Now().Before(e.expiresAt) {
			e.expiresAt = time.Now().Add(store.ttl)
			store.sessions[id] = e
			return e.sess, nil
		}
	}
	now := time.Now()
	sess := session.Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	store.sessions[sess.ID] = entry{sess: sess, expiresAt: now.Add(store.ttl)}
	return sess, nil
}

func (store *Store) Get(ctx context.Context, id string) (session.Session, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	e, ok := store.sessions[id]
	if !ok || time.Now().After(e.expiresAt) {
		return session.Session{}, session.ErrNotFound
	}
	return e.sess, nil
}

func (store *Store) Save(ctx context.Context, sess session.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[sess.ID] = entry{sess: sess, expiresAt: time.Now().Add(store.ttl)}
	return nil
}

func (store *Store) Delete(ctx context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, id)
	return nil
}
