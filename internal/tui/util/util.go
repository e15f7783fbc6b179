// Package util holds small helpers shared by TUI components.
package util

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// InfoType classifies a status line message.
type InfoType int

// Info types.
const (
	InfoTypeInfo InfoType = iota
	InfoTypeWarn
	InfoTypeError
)

// InfoMsg shows a transient message in the status bar.
type InfoMsg struct {
	Type InfoType
	Msg  string
	TTL  time.Duration
}

// ClearInfoMsg clears a transient message.
type ClearInfoMsg struct{}

// DefaultInfoTTL is how long an InfoMsg stays visible.
const DefaultInfoTTL = 3 * time.Second

// CmdHandler wraps a message in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportInfo shows an informational message.
func ReportInfo(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeInfo, Msg: msg, TTL: DefaultInfoTTL})
}

// ReportWarn shows a warning.
func ReportWarn(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeWarn, Msg: msg, TTL: DefaultInfoTTL})
}

// ClearAfter returns a command that clears the status message after ttl.
func ClearAfter(ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return ClearInfoMsg{}
	})
}
