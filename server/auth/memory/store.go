package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/cyp0633/calview/server/auth"
)

// User represents a user in the memory store
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"` // In production this should be hashed
	ReadOnly bool   `yaml:"read_only"`
}

// Store implements an in-memory authentication store
type Store struct {
	mu     sync.RWMutex
	users  map[string]User // map[username]User
	logger *slog.Logger
}

// New creates a new in-memory authentication store
func New(opts ...Option) *Store {
	s := &Store{
		users:  make(map[string]User),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Option represents a configuration option for the Store
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// AddUser adds a new user to the store
func (s *Store) AddUser(user User) error {
	if user.Username == "" {
		return fmt.Errorf("empty username")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		s.logger.Warn("failed to add user: already exists",
			"username", user.Username)
		return fmt.Errorf("user already exists: %s", user.Username)
	}

	s.users[user.Username] = user

	s.logger.Info("user added successfully",
		"username", user.Username,
		"read_only", user.ReadOnly)

	return nil
}

// Authenticate implements auth.Authenticator
func (s *Store) Authenticate(ctx context.Context, creds auth.Credentials) (*auth.Principal, error) {
	s.mu.RLock()
	user, exists := s.users[creds.Username]
	s.mu.RUnlock()

	if !exists {
		s.logger.Info("authentication failed: user not found",
			"username", creds.Username)
		return nil, &auth.Error{
			Type:    auth.ErrInvalidCredentials,
			Message: "invalid username or password",
		}
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(creds.Password)) != 1 {
		s.logger.Info("authentication failed: invalid password",
			"username", creds.Username)
		return nil, &auth.Error{
			Type:    auth.ErrInvalidCredentials,
			Message: "invalid username or password",
		}
	}

	s.logger.Debug("authentication successful",
		"username", creds.Username)

	return &auth.Principal{ID: creds.Username, ReadOnly: user.ReadOnly}, nil
}

// ValidateAccess implements auth.Authenticator. Read-only users may only
// issue safe methods.
func (s *Store) ValidateAccess(ctx context.Context, principal *auth.Principal, method, path string) error {
	if principal == nil {
		s.logger.Info("access validation failed: no principal")
		return &auth.Error{
			Type:    auth.ErrUnauthorized,
			Message: "authentication required",
		}
	}

	if principal.ReadOnly && !safeMethod(method) {
		s.logger.Warn("access validation failed: forbidden",
			"username", principal.ID,
			"method", method,
			"path", path)
		return &auth.Error{
			Type:    auth.ErrForbidden,
			Message: fmt.Sprintf("read-only user cannot %s %s", method, path),
		}
	}

	s.logger.Debug("access validation successful",
		"username", principal.ID,
		"method", method,
		"path", path)

	return nil
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
