// Package profile reads and edits user accounts.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/domain"
)

// Session is the part of the session service profiles need
type Session interface {
	domain.SessionGate
	Logout() error
}

// Service manages user profile operations.
// An empty user ID means the signed-in user.
type Service struct {
	repo    domain.ProfileRepository
	session Session
	tracker *activity.Tracker
	report  *activity.Reporter
	logger  *slog.Logger
}

// NewService creates a new profile service
func NewService(
	repo domain.ProfileRepository,
	session Session,
	tracker *activity.Tracker,
	report *activity.Reporter,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil {
		tracker = activity.NewTracker(nil)
	}
	if report == nil {
		report = activity.NewReporter(session, nil, logger)
	}
	return &Service{repo: repo, session: session, tracker: tracker, report: report, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	id, _, err := s.resolve(ctx, userID, "view profiles")
	if err != nil {
		return nil, err
	}

	done := s.tracker.Begin()
	defer done()

	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		s.report.Fail(ctx, err, "load the profile")
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	id, _, err := s.resolve(ctx, userID, "edit profiles")
	if err != nil {
		return nil, err
	}
	update.Name = strings.TrimSpace(update.Name)
	update.Email = strings.TrimSpace(update.Email)
	if err := validateUpdate(update); err != nil {
		s.report.Notify(ctx, domain.NoticeFor(err, ""))
		return nil, err
	}

	done := s.tracker.Begin()
	defer done()

	p, err := s.repo.UpdateProfile(ctx, id, update)
	if err != nil {
		s.report.Fail(ctx, err, "update the profile")
		return nil, fmt.Errorf("failed to update profile %s: %w", id, err)
	}
	s.logger.Info("updated profile", "userID", id)
	s.report.Notify(ctx, domain.SuccessNotice("Profile updated."))
	return p, nil
}

// Delete removes the account; deleting your own account signs you out
func (s *Service) Delete(ctx context.Context, userID string) error {
	id, self, err := s.resolve(ctx, userID, "delete profiles")
	if err != nil {
		return err
	}

	done := s.tracker.Begin()
	defer done()

	if err := s.repo.DeleteProfile(ctx, id); err != nil {
		s.report.Fail(ctx, err, "delete the profile")
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	s.logger.Info("deleted profile", "userID", id, "self", self)

	if self {
		if err := s.session.Logout(); err != nil {
			s.logger.Error("failed to clear session after deleting account", "error", err)
		}
		s.report.Notify(ctx, domain.Notice{Level: domain.NoticeSuccess, Message: "Account deleted.", Route: domain.RouteLogin})
		return nil
	}
	s.report.Notify(ctx, domain.SuccessNotice("Profile deleted."))
	return nil
}

// resolve returns the target user ID and whether it is the signed-in user
func (s *Service) resolve(ctx context.Context, userID, action string) (string, bool, error) {
	sess, err := s.report.RequireSession(ctx, action)
	if err != nil {
		return "", false, err
	}
	if userID == "" {
		userID = sess.UserID
	}
	return userID, userID == sess.UserID, nil
}

func validateUpdate(u domain.ProfileUpdate) error {
	if u.Name == "" && u.Email == "" && u.Password == "" {
		return &domain.ValidationError{Field: "update", Problem: "has no changes"}
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return &domain.ValidationError{Field: "email", Problem: "is not a valid address"}
		}
	}
	if u.Password != "" && len(u.Password) < 6 {
		return &domain.ValidationError{Field: "password", Problem: "must be at least 6 characters"}
	}
	return nil
}
