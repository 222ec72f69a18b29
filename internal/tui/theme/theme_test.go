package theme

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q): %v", name, err)
			}
			if th.Bg == "" || th.Fg == "" || th.Accent == "" {
				t.Errorf("theme %q has empty base colors", name)
			}
			if len(th.Providers) == 0 {
				t.Errorf("theme %q has no provider swatches", name)
			}
			if th.Today == "" || th.Paid == "" {
				t.Errorf("theme %q missing today/paid defaults", name)
			}
		})
	}
}

func TestLoad_UnknownFallsBackToMocha(t *testing.T) {
	th, err := Load("no-such-theme")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "mocha" {
		t.Errorf("expected mocha fallback, got %q", th.Name)
	}
}

func TestLoad_EmptyName(t *testing.T) {
	th, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "mocha" {
		t.Errorf("expected mocha default, got %q", th.Name)
	}
}

func TestProviderColor(t *testing.T) {
	th, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := th.ProviderColor("blue", 0); got != th.Providers["blue"] {
		t.Errorf("known color = %q", got)
	}
	// Unknown names fall back by index, deterministically.
	first := th.ProviderColor("magenta", 2)
	second := th.ProviderColor("magenta", 2)
	if first != second || first == "" {
		t.Errorf("fallback not stable: %q vs %q", first, second)
	}
	if th.ProviderColor("magenta", 0) == th.ProviderColor("magenta", 1) {
		t.Error("different indexes should pick different swatches")
	}
}

func TestNewPalette(t *testing.T) {
	th, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := NewPalette(th)

	if p.Bg == "" || p.Accent == "" {
		t.Error("palette missing base colors")
	}

	sw := p.Provider("blue", 0)
	if sw.Accent == "" || sw.Bg == "" || sw.BgDone == "" {
		t.Errorf("incomplete swatch: %+v", sw)
	}
	if sw.Bg == sw.Accent {
		t.Error("block background should be darkened, not the raw accent")
	}
}

func TestNewPalette_NilTheme(t *testing.T) {
	p := NewPalette(nil)
	if p.Bg == "" {
		t.Error("nil theme should fall back to mocha")
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("Mocha") {
		t.Error("mocha should be available (case-insensitive)")
	}
	if IsAvailable("solarized") {
		t.Error("solarized is not shipped")
	}
}
