package activity

import (
	"context"
	"sync/atomic"
)

// Mount flags whether the view that issued a request is still showing.
// Unmounting does not cancel requests; it only tells late responses
// to skip their state updates.
type Mount struct {
	gone atomic.Bool
}

// NewMount returns a mounted Mount
func NewMount() *Mount {
	return &Mount{}
}

// Unmount marks the view as gone
func (m *Mount) Unmount() {
	m.gone.Store(true)
}

// Alive returns true until Unmount is called
func (m *Mount) Alive() bool {
	return m != nil && !m.gone.Load()
}

type mountKey struct{}

// WithMount attaches m to ctx
func WithMount(ctx context.Context, m *Mount) context.Context {
	return context.WithValue(ctx, mountKey{}, m)
}

// Mounted reports whether the view attached to ctx is still alive.
// A context without a Mount is always considered mounted.
func Mounted(ctx context.Context) bool {
	m, ok := ctx.Value(mountKey{}).(*Mount)
	if !ok {
		return true
	}
	return m.Alive()
}
