// Package dateutil resolves the build date shown on generated pages and covers.
//
// A manifest's project.date is either a literal ("Q1 2026"), "auto" for the
// build day as "October 19, 2026", or "auto:FORMAT" with the tokens YYYY, YY,
// MMMM, MMM, MM, M, DD and D. Text in brackets is copied as is.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable project.date value.
var ErrInvalidDateFormat = errors.New("invalid date format")

const (
	autoKeyword   = "auto"
	autoPrefix    = autoKeyword + ":"
	defaultFormat = "MMMM D, YYYY"
	maxFormatLen  = 50
)

// layoutTokens is walked in order, so longer tokens come first.
var layoutTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Stamp is the date shown on a build's pages together with the copyright year.
type Stamp struct {
	Date string
	Year int
}

// NewStamp resolves a project.date value against now. An empty value means "auto".
func NewStamp(value string, now time.Time) (Stamp, error) {
	date, err := resolve(value, now)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Date: date, Year: now.Year()}, nil
}

func resolve(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	switch {
	case value == "" || lower == autoKeyword:
		return format(defaultFormat, now)
	case strings.HasPrefix(lower, autoPrefix):
		return format(value[len(autoPrefix):], now)
	default:
		return value, nil
	}
}

// format renders now with a token format such as "DD/MM/YYYY".
func format(tokens string, now time.Time) (string, error) {
	layout, err := toLayout(tokens)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

func toLayout(tokens string) (string, error) {
	if tokens == "" {
		return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, autoPrefix)
	}
	if len(tokens) > maxFormatLen {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, maxFormatLen)
	}

	var b strings.Builder
	for rest := tokens; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, tokens)
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		n := 1
		piece := rest[:1]
		for _, t := range layoutTokens {
			if strings.HasPrefix(rest, t.token) {
				n, piece = len(t.token), t.layout
				break
			}
		}
		b.WriteString(piece)
		rest = rest[n:]
	}
	return b.String(), nil
}
