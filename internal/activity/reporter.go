package activity

import (
	"context"
	"log/slog"

	"github.com/mmcdole/shelf/internal/domain"
)

// Reporter turns the outcome of a remote call into a notice.
// Auth failures end the session before the notice goes out.
type Reporter struct {
	gate     domain.SessionGate
	notifier domain.Notifier
	logger   *slog.Logger
}

// NewReporter creates a reporter; a nil notifier discards notices
func NewReporter(gate domain.SessionGate, notifier domain.Notifier, logger *slog.Logger) *Reporter {
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{gate: gate, notifier: notifier, logger: logger}
}

// Notify delivers n unless the view behind ctx has gone away
func (r *Reporter) Notify(ctx context.Context, n domain.Notice) {
	if !Mounted(ctx) {
		r.logger.Debug("dropping notice for unmounted view", "message", n.Message)
		return
	}
	r.notifier.Notify(n)
}

// Fail logs err, invalidates the session on 401/403 and emits one notice.
// action completes the sentence "Couldn't ...".
func (r *Reporter) Fail(ctx context.Context, err error, action string) {
	kind := domain.Classify(err)
	r.logger.Error("remote call failed", "action", action, "kind", kind.String(), "error", err)

	if domain.IsAuthFailure(err) && r.gate != nil {
		r.gate.Invalidate(action + ": " + err.Error())
	}
	r.Notify(ctx, domain.NoticeFor(err, action))
}

// RequireSession returns the active session, or emits a sign-in notice
func (r *Reporter) RequireSession(ctx context.Context, action string) (domain.Session, error) {
	if r.gate == nil {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	sess, err := r.gate.Require()
	if err != nil {
		r.Notify(ctx, domain.LoginNotice("Please sign in to "+action+"."))
		return domain.Session{}, err
	}
	return sess, nil
}
