package text

import (
	"cmp"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Collect scans text once and returns a record for every numeric span the rule
// selects. The text is never mutated; replacements are computed independently
// per span. Records come back in ascending offset order.
func Collect(text string, rule Rule) ([]MatchRecord, error) {
	var records []MatchRecord

	for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
		if !rule.Groups {
			rec, err := newRecord(text, rule, loc[0], loc[1])
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			continue
		}

		// loc[0:2] is the whole match, groups follow in pairs
		for g := 1; g < len(loc)/2; g++ {
			start, end := loc[2*g], loc[2*g+1]
			if start < 0 {
				return nil, &FormatError{Rule: rule.Name, Offset: loc[0], Err: ErrGroupNotMatched}
			}
			rec, err := newRecord(text, rule, start, end)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

func newRecord(text string, rule Rule, start, end int) (MatchRecord, error) {
	original := text[start:end]
	replacement, err := rule.Transform(original)
	if err != nil {
		return MatchRecord{}, &FormatError{Rule: rule.Name, Text: original, Offset: start, Err: err}
	}
	return MatchRecord{Original: original, Replacement: replacement, Start: start}, nil
}

// Splice replaces every record's original span with its replacement.
//
// Records are ordered by start offset and the result is assembled in one
// ascending pass: untouched span, replacement, untouched span, and so on.
// Offsets always refer to the input text, so a replacement of a different
// length can never shift a span that has not been written yet.
func Splice(text string, records []MatchRecord) (string, error) {
	if len(records) == 0 {
		return text, nil
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b MatchRecord) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var b strings.Builder
	b.Grow(len(text))

	prev := 0
	for _, rec := range sorted {
		if rec.Start < 0 || rec.End() > len(text) || text[rec.Start:rec.End()] != rec.Original {
			return "", errors.Errorf("record %q at offset %d: %w", rec.Original, rec.Start, ErrSpanOutOfRange)
		}
		if rec.Start < prev {
			return "", errors.Errorf("record %q at offset %d: %w", rec.Original, rec.Start, ErrOverlappingSpans)
		}
		b.WriteString(text[prev:rec.Start])
		b.WriteString(rec.Replacement)
		prev = rec.End()
	}
	b.WriteString(text[prev:])

	return b.String(), nil
}

// Apply runs a single rule over text and returns the rewritten text.
// When the rule matches nothing the input is returned unchanged.
func Apply(text string, rule Rule) (string, error) {
	out, _, err := apply(text, rule)
	return out, err
}

func apply(text string, rule Rule) (string, int, error) {
	records, err := Collect(text, rule)
	if err != nil {
		return "", 0, err
	}
	out, err := Splice(text, records)
	if err != nil {
		return "", 0, err
	}
	return out, len(records), nil
}
