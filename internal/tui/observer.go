package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/domain"
)

// ChannelNotifier adapts domain.Notifier to a channel for Bubble Tea.
type ChannelNotifier struct {
	ch chan domain.Notice
}

// NewChannelNotifier creates a notifier with a buffered channel.
func NewChannelNotifier(size int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan domain.Notice, size)}
}

// Notify sends the notice to the channel (non-blocking if full).
func (o *ChannelNotifier) Notify(n domain.Notice) {
	select {
	case o.ch <- n:
	default: // Non-blocking if channel full
	}
}

// Notices returns the receive side for the model
func (o *ChannelNotifier) Notices() <-chan domain.Notice {
	return o.ch
}

// WaitForNoticeCmd blocks until the next notice arrives
func WaitForNoticeCmd(ch <-chan domain.Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}
