package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"attack", "attack", 100},
		{"attak", "attack", 84},
		{"attack", "attak", 80},
		{"HPP", "HP", 50},
		{"HP", "HPP", 67},
		{"", "", 100},
		{"x", "", 0},
		{"", "abcd", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarity_IdentityIsFull(t *testing.T) {
	for _, s := range []string{"a", "move", "@importfactory", "RemainingMovePoints"} {
		if got := Similarity(s, s); got != 100 {
			t.Errorf("Similarity(%q, %q) = %d, want 100", s, s, got)
		}
	}
}

func TestSimilarity_Asymmetric(t *testing.T) {
	if Similarity("attak", "attack") == Similarity("attack", "attak") {
		t.Error("expected normalization by the second argument to make scores differ")
	}
}

func TestFindNearest_FirstQualifyingWins(t *testing.T) {
	// "abxx" scores 50, "abcx" scores 75; the first one above threshold wins.
	got, ok := FindNearest("abcd", []string{"zzzz", "abxx", "abcx"}, 40)
	if !ok || got != "abxx" {
		t.Errorf("FindNearest = (%q, %v), want (\"abxx\", true)", got, ok)
	}
}

func TestFindNearest_StrictThreshold(t *testing.T) {
	if _, ok := FindNearest("HPP", []string{"HP"}, 50); ok {
		t.Error("score equal to threshold must not qualify")
	}
	if got, ok := FindNearest("HPP", []string{"HP"}, 33); !ok || got != "HP" {
		t.Errorf("FindNearest = (%q, %v), want (\"HP\", true)", got, ok)
	}
}

func TestFindNearest_NoCandidates(t *testing.T) {
	if _, ok := FindNearest("attack", nil, 0); ok {
		t.Error("expected no match on empty candidate list")
	}
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{Errorf(Syntax, "unknown command 'x'"), "unknown command 'x'"},
		{Errorf(Syntax, "unknown command 'attak'").At(3).Suggest("attak", []string{"move", "attack"}, CommandThreshold),
			"[line 3] unknown command 'attak' (did you mean 'attack'?)"},
		{Warnf("already full").At(2), "[line 2] already full #warning"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("running: %w", Errorf(Apply, "target is dead"))
	if got := KindOf(err); got != Apply {
		t.Errorf("KindOf = %v, want %v", got, Apply)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", got)
	}
}

func TestIsWarning(t *testing.T) {
	if !IsWarning(Warnf("x").Error()) {
		t.Error("warning message should carry the marker")
	}
	if IsWarning(Errorf(Domain, "x").Error()) {
		t.Error("error message should not carry the marker")
	}
	if !strings.Contains(Warnf("x").Error(), WarningMarker) {
		t.Error("marker missing")
	}
}
