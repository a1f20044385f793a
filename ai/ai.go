// Package ai holds the AI-backed collaborators for duplicate detection and
// content moderation. Both are interfaces so services can swap the OpenAI
// implementation for the deterministic fallback or a test fake.
package ai

import "context"

// SemanticMatcher judges name equivalence for place duplicate detection and
// verified-name matching.
type SemanticMatcher interface {
	// NamesMatch reports whether an official record name and a
	// user-provided candidate refer to the same place.
	NamesMatch(ctx context.Context, officialName, candidateName string) (bool, error)

	// FindDuplicate returns the existing name the candidate duplicates, or
	// "" when none of them match.
	FindDuplicate(ctx context.Context, candidateName string, existingNames []string) (string, error)
}

// ModerationResult is the outcome of a moderation check.
type ModerationResult struct {
	Flagged bool
	Reason  string
}

// ModerationGate flags disallowed text content.
type ModerationGate interface {
	Check(ctx context.Context, text string) (ModerationResult, error)
}
