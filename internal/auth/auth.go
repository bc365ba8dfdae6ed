// Package auth provides the user-identity collaborator: a magic-link email
// sign-in surface with change notifications. The ledger itself never
// depends on identity; only the settings screen consumes this.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotSignedIn is returned by CurrentUser when no session exists.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrInvalidEmail is returned by SignInWithEmail for a malformed address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidToken is returned by VerifyToken for an unknown or spent token.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// User is the signed-in identity.
type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	SignedIn time.Time `json:"signedIn"`
}

// Provider is the identity surface the application consumes. OnAuthChange
// callbacks receive the new user on sign-in and nil on sign-out.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, error)
	SignInWithEmail(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
	OnAuthChange(fn func(*User)) (unsubscribe func())
}

// MagicLink implements Provider with single-use uuid tokens. Link delivery
// is a stub: the token is logged instead of mailed. Tokens are consumed by
// VerifyToken, which establishes the session.
type MagicLink struct {
	mu        sync.Mutex
	user      *User
	pending   map[string]string // token -> email
	listeners map[int]func(*User)
	nextID    int
	logger    *zap.Logger
}

// NewMagicLink creates a provider with no active session.
func NewMagicLink() *MagicLink {
	return &MagicLink{
		pending:   make(map[string]string),
		listeners: make(map[int]func(*User)),
		logger:    util.GetLogger(),
	}
}

// CurrentUser returns the signed-in user, or ErrNotSignedIn.
func (m *MagicLink) CurrentUser(_ context.Context) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil, ErrNotSignedIn
	}
	user := *m.user
	return &user, nil
}

// SignInWithEmail issues a magic-link token for the address. The session
// is not established until the token is verified.
func (m *MagicLink) SignInWithEmail(ctx context.Context, email string) error {
	_, err := m.IssueToken(ctx, email)
	return err
}

// IssueToken creates and registers a single-use token for the address and
// returns it. SignInWithEmail wraps this; the returned token is what a
// mail delivery integration would embed in the link.
func (m *MagicLink) IssueToken(_ context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}

	token := uuid.New().String()

	m.mu.Lock()
	m.pending[token] = email
	m.mu.Unlock()

	m.logger.Info("Magic link issued",
		zap.String("email", email),
		zap.String("token", token))
	return token, nil
}

// VerifyToken consumes a pending token and signs its email in. Listeners
// are notified with the new user.
func (m *MagicLink) VerifyToken(_ context.Context, token string) (*User, error) {
	m.mu.Lock()
	email, ok := m.pending[token]
	if !ok {
		m.mu.Unlock()
		return nil, ErrInvalidToken
	}
	delete(m.pending, token)

	m.user = &User{
		ID:       uuid.New().String(),
		Email:    email,
		SignedIn: time.Now(),
	}
	user := *m.user
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(&user)
	}

	m.logger.Info("User signed in", zap.String("email", user.Email))
	return &user, nil
}

// SignOut ends the session. Listeners are notified with nil. Signing out
// with no session is a no-op.
func (m *MagicLink) SignOut(_ context.Context) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return nil
	}
	email := m.user.Email
	m.user = nil
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}

	m.logger.Info("User signed out", zap.String("email", email))
	return nil
}

// OnAuthChange registers a callback for sign-in and sign-out. The returned
// function unsubscribes it.
func (m *MagicLink) OnAuthChange(fn func(*User)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// snapshotListeners copies the listener set so callbacks run outside the
// lock. Caller must hold m.mu.
func (m *MagicLink) snapshotListeners() []func(*User) {
	out := make([]func(*User), 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}
