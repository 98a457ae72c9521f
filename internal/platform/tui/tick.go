// Package tui provides the Bubble Tea integration for IsoForts.
// It handles the terminal UI loop, input mapping, menus and SSH sessions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const maxTickRate = 120

// TickMsg drives one game step.
type TickMsg time.Time

// tickInterval is the delay between steps for a tick rate, clamped to
// 1..maxTickRate ticks per second.
func tickInterval(rate int) time.Duration {
	rate = max(1, min(rate, maxTickRate))
	return time.Second / time.Duration(rate)
}

func tickCmd(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
