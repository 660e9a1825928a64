package text

import (
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RegexRewriter implements TextRewriter by splicing regex-located numeric spans
type RegexRewriter struct{}

// NewRegexRewriter creates a new RegexRewriter
func NewRegexRewriter() *RegexRewriter {
	return &RegexRewriter{}
}

// Rewrite implements TextRewriter.Rewrite
func (r *RegexRewriter) Rewrite(ctx context.Context, content io.Reader, rules []Rule) (*RewriteResult, error) {
	if err := r.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	result := &RewriteResult{
		OriginalContent: originalContent,
	}

	current := string(originalContent)
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("rewrite cancelled before rule %q: %w", rule.Name, err)
		}

		next, n, err := apply(current, rule)
		if err != nil {
			return nil, errors.Errorf("applying rule %q: %w", rule.Name, err)
		}

		logger.Debug().Str("rule", rule.Name).Int("matches", n).Msg("applied rewrite rule")

		result.Rules = append(result.Rules, RuleResult{Name: rule.Name, Matches: n})
		result.ReplacementCount += n
		current = next
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = !bytes.Equal(result.OriginalContent, result.ModifiedContent)
	return result, nil
}

// ValidateRules implements TextRewriter.ValidateRules
func (r *RegexRewriter) ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if rule.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
		if rule.Transform == nil {
			return errors.Errorf("rule %d (%s): transform is required", i, rule.Name)
		}
		if rule.Groups && rule.Pattern.NumSubexp() == 0 {
			return errors.Errorf("rule %d (%s): pattern has no capturing groups", i, rule.Name)
		}
	}
	return nil
}
