package env

import "testing"

var (
	themeKey   = NewKey("theme", "light")
	spacingKey = NewKey("spacing", 8.0)
)

func TestValueDefaults(t *testing.T) {
	e := New()
	if got := Value(e, themeKey); got != "light" {
		t.Errorf("expected default light, got %q", got)
	}
	if _, ok := Lookup(e, themeKey); ok {
		t.Error("root environment should hold no bindings")
	}
	if got := Value[float64](nil, spacingKey); got != 8 {
		t.Errorf("nil environment should yield default, got %v", got)
	}
}

func TestScopedOverride(t *testing.T) {
	root := New()
	dark := With(root, themeKey, "dark")
	dense := With(dark, spacingKey, 2.0)
	sibling := With(root, spacingKey, 16.0)

	if got := Value(dense, themeKey); got != "dark" {
		t.Errorf("expected inherited dark, got %q", got)
	}
	if got := Value(dense, spacingKey); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := Value(sibling, themeKey); got != "light" {
		t.Errorf("sibling must not see dark, got %q", got)
	}
	if got := Value(root, spacingKey); got != 8 {
		t.Errorf("root must be unchanged, got %v", got)
	}
	if dense.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", dense.Depth())
	}
}

func TestInnermostWins(t *testing.T) {
	e := With(With(New(), themeKey, "dark"), themeKey, "contrast")
	if got := Value(e, themeKey); got != "contrast" {
		t.Errorf("expected contrast, got %q", got)
	}
}

func TestKeysWithSameNameAreDistinct(t *testing.T) {
	other := NewKey("theme", "other")
	e := With(New(), themeKey, "dark")
	if got := Value(e, other); got != "other" {
		t.Errorf("distinct key should not see override, got %q", got)
	}
	if other.Name() != "theme" {
		t.Errorf("unexpected name %q", other.Name())
	}
}

func TestZeroKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero key")
		}
	}()
	var k Key[int]
	With(New(), k, 1)
}
