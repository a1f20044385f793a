package ai

import (
	"context"
	"testing"
)

func TestFuzzyMatcherNamesMatch(t *testing.T) {
	m := NewFuzzyMatcher()
	ctx := context.Background()

	cases := []struct {
		a, b string
		want bool
	}{
		{"Joe's Cafe", "Joes Cafe", true},
		{"Joe's Cafe", "joes  cafe", true},
		{"Joe's Cafe", "JOE'S CAFE", true},
		{"Blue Bottle Coffee", "Blue Bottel Coffee", true},
		{"Joe's Cafe", "Central Park", false},
		{"Joe's Cafe", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, err := m.NamesMatch(ctx, c.a, c.b)
		if err != nil {
			t.Fatalf("NamesMatch(%q, %q): %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Fatalf("NamesMatch(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestFuzzyMatcherFindDuplicate(t *testing.T) {
	m := NewFuzzyMatcher()
	ctx := context.Background()

	existing := []string{"Central Park", "Joe's Cafe", "Blue Bottle Coffee"}

	match, err := m.FindDuplicate(ctx, "Joes Cafe", existing)
	if err != nil {
		t.Fatal(err)
	}
	if match != "Joe's Cafe" {
		t.Fatalf("expected Joe's Cafe, got %q", match)
	}

	match, err = m.FindDuplicate(ctx, "Golden Gate Bridge", existing)
	if err != nil {
		t.Fatal(err)
	}
	if match != "" {
		t.Fatalf("expected no match, got %q", match)
	}

	match, err = m.FindDuplicate(ctx, "anything", nil)
	if err != nil {
		t.Fatal(err)
	}
	if match != "" {
		t.Fatalf("expected no match on empty set, got %q", match)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := normalizeName("  Joe's   Cafe! "); got != "joes cafe" {
		t.Fatalf("got %q", got)
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
	}
	for _, c := range cases {
		if got := editDistance(c.a, c.b); got != c.want {
			t.Fatalf("editDistance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
