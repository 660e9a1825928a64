package text

import (
	"math"
	"regexp"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// RoundRuleName is the name given to the rule returned by RoundRule
const RoundRuleName = "round"

// fractionalPattern matches numbers with three or more fractional digits
var fractionalPattern = regexp.MustCompile(`\d+\.\d{3,}`)

// FormatInteger rounds v half away from zero and formats it as a plain
// integer with no decimal point or separators.
func FormatInteger(v float64) string {
	r := math.Round(v)
	if r == 0 {
		// drops the sign of -0
		return "0"
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// RoundTransform rounds a decimal literal to the nearest integer
func RoundTransform(numStr string) (string, error) {
	v, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return "", err
	}
	return FormatInteger(v), nil
}

// ScaleTransform returns a Transform that multiplies a non-negative integer
// literal by factor and rounds the product.
func ScaleTransform(factor float64) Transform {
	return func(numStr string) (string, error) {
		if !isDigits(numStr) {
			return "", ErrNotInteger
		}
		v, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return "", err
		}
		return FormatInteger(v * factor), nil
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateFactor checks that factor can be used to scale coordinates
func ValidateFactor(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return errors.Errorf("factor %v: %w", factor, ErrInvalidFactor)
	}
	return nil
}

// RoundRule returns the rule that rounds every number carrying three or more
// fractional digits.
func RoundRule() Rule {
	return Rule{
		Name:      RoundRuleName,
		Pattern:   fractionalPattern,
		Transform: RoundTransform,
	}
}

// NewScaleRule returns a capturing-group rule that scales every group by factor.
func NewScaleRule(name string, pattern *regexp.Regexp, factor float64) Rule {
	return Rule{
		Name:      name,
		Pattern:   pattern,
		Groups:    true,
		Transform: ScaleTransform(factor),
	}
}

// ScaleRule compiles pattern and returns the matching scale rule.
func ScaleRule(name, pattern string, factor float64) (Rule, error) {
	if err := ValidateFactor(factor); err != nil {
		return Rule{}, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Errorf("compiling pattern for rule %q: %w", name, err)
	}
	return NewScaleRule(name, re, factor), nil
}

// RoundFractionalNumbers replaces every number with three or more fractional
// digits by its nearest integer. Numbers with fewer fractional digits are left
// alone, so the operation is idempotent.
func RoundFractionalNumbers(text string) (string, error) {
	return Apply(text, RoundRule())
}

// ScaleCapturedGroups multiplies the number in every capturing group of every
// match by factor, rounding to the nearest integer. Spans from all matches and
// groups are collected before any splicing. A group that does not hold a
// non-negative integer literal fails the whole call with a *FormatError.
func ScaleCapturedGroups(text string, pattern *regexp.Regexp, factor float64) (string, error) {
	if err := ValidateFactor(factor); err != nil {
		return "", err
	}
	return Apply(text, NewScaleRule("scale", pattern, factor))
}
