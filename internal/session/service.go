// Package session owns the signed-in identity: login, token refresh, logout,
// and invalidation when the backend rejects the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
)

// Service manages user session operations
type Service struct {
	auth   domain.AuthRepository
	store  domain.SessionStore
	logger *slog.Logger

	mu      sync.RWMutex
	current domain.Session
	onEnd   []func()
}

// NewService creates a new session service, restoring any stored session
func NewService(auth domain.AuthRepository, store domain.SessionStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{auth: auth, store: store, logger: logger}
	if sess, ok := store.LoadSession(); ok {
		s.current = sess
		logger.Debug("restored session", "userID", sess.UserID, "role", sess.Role)
	}
	return s
}

// OnEnd registers fn to run whenever the session ends (logout or invalidation)
func (s *Service) OnEnd(fn func()) {
	s.mu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// Token implements domain.TokenSource
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// Current returns the active session
func (s *Service) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current.IsValid()
}

// IsAdmin returns true if the active session has the admin role
func (s *Service) IsAdmin() bool {
	sess, ok := s.Current()
	return ok && sess.IsAdmin()
}

// Require returns the active session or domain.ErrUnauthenticated
func (s *Service) Require() (domain.Session, error) {
	sess, ok := s.Current()
	if !ok {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	return sess, nil
}

// Login authenticates and stores the new session
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if err := requireFields("email", email, "password", password); err != nil {
		return domain.Session{}, err
	}

	pair, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return domain.Session{}, loginError(err)
	}

	sess, err := sessionFromTokens(pair)
	if err != nil {
		s.logger.Error("login returned unreadable token", "error", err)
		return domain.Session{}, err
	}

	if err := s.set(sess); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("signed in", "userID", sess.UserID, "role", sess.Role)
	return sess, nil
}

// Register creates an account; the user signs in afterwards
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := requireFields("name", name, "email", email, "password", password); err != nil {
		return err
	}
	if err := s.auth.Register(ctx, name, email, password); err != nil {
		s.logger.Warn("registration failed", "email", email, "error", err)
		return fmt.Errorf("registration failed: %w", err)
	}
	s.logger.Info("registered account", "email", email)
	return nil
}

// Refresh rotates the token pair. A rejected refresh token ends the session.
func (s *Service) Refresh(ctx context.Context) error {
	sess, err := s.Require()
	if err != nil {
		return err
	}
	if sess.RefreshToken == "" {
		s.Invalidate("no refresh token")
		return domain.ErrUnauthenticated
	}

	pair, err := s.auth.RefreshToken(ctx, sess.RefreshToken)
	if err != nil {
		if domain.IsAuthFailure(err) {
			s.Invalidate("refresh rejected")
		} else {
			s.logger.Warn("token refresh failed", "error", err)
		}
		return fmt.Errorf("token refresh failed: %w", err)
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = sess.RefreshToken
	}
	// A logout while the call was in flight wins
	if cur, ok := s.Current(); !ok || cur.RefreshToken != sess.RefreshToken {
		return domain.ErrUnauthenticated
	}

	next, err := sessionFromTokens(pair)
	if err != nil {
		return err
	}
	if err := s.set(next); err != nil {
		return err
	}
	s.logger.Debug("refreshed session", "userID", next.UserID)
	return nil
}

// Logout clears the session and everything scoped to it
func (s *Service) Logout() error {
	err := s.end()
	s.logger.Info("signed out")
	return err
}

// Invalidate ends the session after the backend rejected it
func (s *Service) Invalidate(reason string) {
	if err := s.end(); err != nil {
		s.logger.Error("failed to clear session", "error", err)
	}
	s.logger.Warn("session invalidated", "reason", reason)
}

func (s *Service) end() error {
	s.mu.Lock()
	s.current = domain.Session{}
	hooks := append([]func(){}, s.onEnd...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return s.store.ClearSession()
}

func (s *Service) set(sess domain.Session) error {
	if err := s.store.SaveSession(sess); err != nil {
		s.logger.Error("failed to save session", "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// requireFields takes name/value pairs and reports the first empty one
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &domain.ValidationError{Field: pairs[i], Problem: "is required"}
		}
	}
	return nil
}

// loginError maps a rejected login onto a readable message
func loginError(err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		msg := apiErr.Message
		if msg == "" {
			msg = "invalid email or password"
		}
		return fmt.Errorf("%s: %w", msg, domain.ErrUnauthenticated)
	}
	return fmt.Errorf("login failed: %w", err)
}
