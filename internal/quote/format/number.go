// Package format produces human-readable quote numbers.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

const DefaultQuoteNumberTemplate = "Q-{YYYY}{MM}{DD}-{SEQ4}"

// QuoteNumber formats a quote number from a template, the UTC generation
// time, and the count of quotes already carrying the same date prefix for the
// organization. The caller supplies that count; this function never reads
// storage. Two concurrent callers can compute the same number for the same
// organization and day, so uniqueness is enforced by the storage layer.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func QuoteNumber(template string, generatedAt time.Time, existingCountForPrefix int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("quote number template is empty")
	}
	if existingCountForPrefix < 0 {
		return "", fmt.Errorf("invalid existing quote count: %d", existingCountForPrefix)
	}

	seq := existingCountForPrefix + 1
	at := generatedAt.UTC()
	out := template

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", at.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", at.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", at.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", at.Format("02"))

	// Simple sequence
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	// Padded sequence
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m // should never happen
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	// Final safety check: unresolved tokens
	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in quote number format: %s", out)
	}

	return out, nil
}

// DatePrefix returns the prefix shared by all quote numbers generated from
// the template on the given UTC day, used to count existing quotes.
func DatePrefix(template string, generatedAt time.Time) string {
	at := generatedAt.UTC()
	out := template

	out = strings.ReplaceAll(out, "{YYYY}", at.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", at.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", at.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", at.Format("02"))

	if idx := strings.Index(out, "{"); idx >= 0 {
		out = out[:idx]
	}
	return out
}
