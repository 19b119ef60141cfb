package util

import (
	"strings"
	"testing"
)

func TestHasPrefixes(t *testing.T) {
	if !HasPrefixes("https://example.com", "http://", "https://") {
		t.Errorf("Expected prefix match for https URL")
	}
	if HasPrefixes("example.com:3000", "http://", "https://") {
		t.Errorf("Expected no prefix match for bare host")
	}
}

func TestRandomBase36(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := RandomBase36(6)
		if len(s) != 6 {
			t.Fatalf("Expected length 6, got %q", s)
		}
		for _, r := range s {
			if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", r) {
				t.Fatalf("Unexpected rune %q in %q", r, s)
			}
		}
		seen[s] = true
	}
	if len(seen) < 2 {
		t.Errorf("Expected some variety in generated strings")
	}
}
