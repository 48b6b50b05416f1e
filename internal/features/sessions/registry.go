package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sales-manager/internal/core/logger"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// TokenFunc generates a session token.
type TokenFunc func() (string, error)

// NewRandomToken returns a random UUID string.
func NewRandomToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Registry holds live sessions in an expiring LRU. Each access extends the
// session's lifetime; an evicted or expired session is closed.
type Registry struct {
	factory  *Factory
	newToken TokenFunc
	parent   context.Context
	logger   *zap.Logger

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

// NewRegistry creates a registry keeping at most capacity sessions for ttl
// after their last use. parent is the root context of every session.
func NewRegistry(parent context.Context, factory *Factory, capacity int, ttl time.Duration, newToken TokenFunc) *Registry {
	if capacity <= 0 {
		capacity = 1000
	}
	if newToken == nil {
		newToken = NewRandomToken
	}
	log := logger.Named("sessions")

	return &Registry{
		factory:  factory,
		newToken: newToken,
		parent:   parent,
		logger:   log,
		sessions: expirable.NewLRU[string, *Session](capacity, func(token string, s *Session) {
			log.Debug("Session evicted", zap.Time("created_at", s.CreatedAt))
			// Close waits for in-flight actions; the LRU lock is held here.
			go s.Close()
		}, ttl),
	}
}

// Create starts a new signed-out session.
func (r *Registry) Create() (*Session, error) {
	token, err := r.newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s := r.factory.New(r.parent, token)

	r.mu.Lock()
	r.sessions.Add(token, s)
	r.mu.Unlock()

	return s, nil
}

// Get returns the session for token and refreshes its expiry.
func (r *Registry) Get(token string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions.Get(token)
	if !ok {
		return nil, false
	}
	r.sessions.Add(s.Token, s)
	return s, true
}

// Remove drops and closes the session for token.
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Remove(token)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Close drops and closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Purge()
}
