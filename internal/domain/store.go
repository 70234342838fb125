package domain

// SessionStore persists the session keys.
// All keys are written and cleared together.
type SessionStore interface {
	LoadSession() (Session, bool)
	SaveSession(s Session) error
	ClearSession() error
	Close() error
}

// SessionGate is what sync services need from the session:
// a precondition check and the fatal-auth exit.
type SessionGate interface {
	Require() (Session, error)
	Invalidate(reason string)
}
