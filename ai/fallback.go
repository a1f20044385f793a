package ai

import (
	"context"
	"strings"
	"unicode"
)

// FuzzyMatcher is a deterministic SemanticMatcher used when no AI provider
// is configured. Names match when their normalized forms are equal or within
// a small edit distance.
type FuzzyMatcher struct{}

func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{}
}

func (m *FuzzyMatcher) NamesMatch(_ context.Context, officialName, candidateName string) (bool, error) {
	return namesEquivalent(officialName, candidateName), nil
}

func (m *FuzzyMatcher) FindDuplicate(_ context.Context, candidateName string, existingNames []string) (string, error) {
	for _, name := range existingNames {
		if namesEquivalent(candidateName, name) {
			return name, nil
		}
	}
	return "", nil
}

// PermissiveGate is the ModerationGate used when no AI provider is
// configured; it flags nothing.
type PermissiveGate struct{}

func NewPermissiveGate() *PermissiveGate {
	return &PermissiveGate{}
}

func (g *PermissiveGate) Check(_ context.Context, _ string) (ModerationResult, error) {
	return ModerationResult{}, nil
}

func namesEquivalent(a, b string) bool {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	// Tolerate one typo per ten characters of the shorter name.
	shorter := len(na)
	if len(nb) < shorter {
		shorter = len(nb)
	}
	allowed := shorter/10 + 1
	return editDistance(na, nb) <= allowed
}

// normalizeName lowers the name and strips everything but letters, digits
// and single spaces, so "Joe's Cafe" and "joes cafe" collapse to the same
// form.
func normalizeName(s string) string {
	var sb strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				sb.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
