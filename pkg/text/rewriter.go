package text

import (
	"context"
	"io"
	"regexp"
)

// MatchRecord is a single numeric span found while scanning, along with the
// text that replaces it.
type MatchRecord struct {
	// Original is the matched substring as it appears in the input
	Original string

	// Replacement is the text spliced in place of Original
	Replacement string

	// Start is the byte offset of Original in the pre-rewrite text
	Start int
}

// End returns the byte offset just past the original span
func (m MatchRecord) End() int {
	return m.Start + len(m.Original)
}

// Transform computes the replacement for one matched numeric substring.
type Transform func(numStr string) (string, error)

// Rule describes where numbers occur and how to rewrite them.
type Rule struct {
	// Name identifies the rule in logs and errors
	Name string

	// Pattern locates the numbers
	Pattern *regexp.Regexp

	// Groups selects capturing-group mode: every group of every match is a
	// numeric span. When false the whole match is the span.
	Groups bool

	// Transform computes each replacement
	Transform Transform
}

// RuleResult reports what a single rule did during a rewrite
type RuleResult struct {
	Name    string
	Matches int
}

// RewriteResult contains the results of a rewrite
type RewriteResult struct {
	// WasModified indicates if the output differs from the input
	WasModified bool

	// ReplacementCount is the number of spans spliced across all rules
	ReplacementCount int

	// OriginalContent is the content before any rule ran
	OriginalContent []byte

	// ModifiedContent is the content after every rule ran
	ModifiedContent []byte

	// Rules holds one entry per applied rule, in order
	Rules []RuleResult
}

// TextRewriter defines the interface for rule-driven numeric rewriting
type TextRewriter interface {
	// Rewrite applies rules in sequence, each one to the output of the last.
	// Any rule failure aborts the whole rewrite and no result is returned.
	Rewrite(ctx context.Context, content io.Reader, rules []Rule) (*RewriteResult, error)

	// ValidateRules checks that all rules are usable
	ValidateRules(rules []Rule) error
}
