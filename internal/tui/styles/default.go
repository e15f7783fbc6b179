package styles

// NewDefaultTheme creates parley's dark theme.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		// Teal and amber
		Primary:   ParseHex("#4fc1b0"),
		Secondary: ParseHex("#7fb4ca"),
		Tertiary:  ParseHex("#3b4252"),
		Accent:    ParseHex("#e0a458"),

		BgBase:    ParseHex("#1b1f24"),
		BgSubtle:  ParseHex("#232830"),
		BgOverlay: ParseHex("#2b313b"),

		FgBase:   ParseHex("#d8dee9"),
		FgMuted:  ParseHex("#8b95a5"),
		FgSubtle: ParseHex("#5d6673"),

		Border:      ParseHex("#3b4252"),
		BorderFocus: ParseHex("#4fc1b0"),

		Success: ParseHex("#a3be8c"),
		Error:   ParseHex("#e06c75"),
		Warning: ParseHex("#ebcb8b"),
		Info:    ParseHex("#7fb4ca"),
	}
}
