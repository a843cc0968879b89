// Package directive parses rewrite directives of the form
// <column>:<major>.<minor> (or <column>:<major> for majors without variants).
package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmrzaf/csvanon/internal/domain"
)

type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse turns one token into a Directive.
func Parse(token string) (domain.Directive, error) {
	column, kind, ok := strings.Cut(token, ":")
	if !ok {
		return domain.Directive{}, &ParseError{
			Input:  token,
			Reason: fmt.Sprintf("invalid rewrite directive %q: expected <column>:<type>", token),
		}
	}

	col, err := strconv.ParseUint(column, 10, 31)
	if err != nil {
		return domain.Directive{}, &ParseError{
			Input:  token,
			Reason: fmt.Sprintf("could not parse %q as unsigned integer", column),
			Err:    err,
		}
	}

	k, err := ParseKind(kind)
	if err != nil {
		return domain.Directive{}, err
	}
	return domain.Directive{Column: int(col), Kind: k}, nil
}

// ParseKind resolves "major.minor" or "major" case-insensitively.
func ParseKind(s string) (domain.Kind, error) {
	majorTok, minorTok, hasMinor := strings.Cut(s, ".")
	if majorTok == "" || (hasMinor && (minorTok == "" || strings.Contains(minorTok, "."))) {
		return domain.Kind{}, &ParseError{Input: s, Reason: fmt.Sprintf("invalid generator kind %q", s)}
	}

	major, ok := lookupMajor(majorTok)
	if !ok {
		return domain.Kind{}, &ParseError{Input: s, Reason: fmt.Sprintf("unknown major generator kind %q", majorTok)}
	}

	minor := domain.MinorNone
	if hasMinor {
		m, ok := lookupMinor(major, minorTok)
		switch {
		case ok:
			minor = m
		case major == domain.MajorBoolean:
			return domain.Kind{}, &ParseError{Input: s, Reason: fmt.Sprintf("generator kind %q takes no minor variant", string(major))}
		default:
			return domain.Kind{}, &ParseError{Input: s, Reason: fmt.Sprintf("unknown minor %s kind %q", major, minorTok)}
		}
	}

	k, err := domain.NewKind(major, minor)
	if err != nil {
		return domain.Kind{}, &ParseError{Input: s, Reason: err.Error()}
	}
	return k, nil
}

// ParseAll parses tokens in order and stops at the first failure.
func ParseAll(tokens []string) ([]domain.Directive, error) {
	out := make([]domain.Directive, 0, len(tokens))
	for i, tok := range tokens {
		d, err := Parse(tok)
		if err != nil {
			return nil, fmt.Errorf("directive %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
