package styles

import (
	"testing"
)

func TestParseHex(t *testing.T) {
	if got := Hex(ParseHex("#4fc1b0")); got != "#4fc1b0" {
		t.Errorf("round trip = %q", got)
	}
	if got := Hex(ParseHex("nope")); got != "#000000" {
		t.Errorf("invalid hex = %q, want black", got)
	}
}

func TestBlend(t *testing.T) {
	black, white := ParseHex("#000000"), ParseHex("#ffffff")
	if got := Hex(Blend(black, white, 0)); got != "#000000" {
		t.Errorf("Blend(t=0) = %q", got)
	}
	if got := Hex(Blend(black, white, 1)); got != "#ffffff" {
		t.Errorf("Blend(t=1) = %q", got)
	}
	if mid := Hex(Blend(black, white, 0.5)); mid == "#000000" || mid == "#ffffff" {
		t.Errorf("Blend(t=0.5) = %q", mid)
	}
}

func TestCurrentTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(nil) })

	if CurrentTheme().Name != "default" {
		t.Errorf("default theme = %q", CurrentTheme().Name)
	}
	custom := NewDefaultTheme()
	custom.Name = "custom"
	SetTheme(custom)
	if CurrentTheme() != custom {
		t.Error("SetTheme did not take effect")
	}
	if CurrentTheme().S() != CurrentTheme().S() {
		t.Error("styles should be built once")
	}
}
