package tui

// Global key bindings.
const (
	keyQuit     = "ctrl+c"
	keyNew      = "ctrl+n"
	keyEnd      = "ctrl+e"
	keySearch   = "ctrl+f"
	keyCopy     = "ctrl+y"
	keyRefresh  = "ctrl+r"
	keyFocus    = "tab"
	keyDismiss  = "esc"
	keyPageUp   = "pgup"
	keyPageDown = "pgdown"
)
