package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmrzaf/csvanon/internal/directive"
	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/registry"
)

// DuplicateColumnsError reports how many directives repeat an already
// targeted column.
type DuplicateColumnsError struct {
	Count int
}

func (e *DuplicateColumnsError) Error() string {
	return fmt.Sprintf("rewrite directives contained %d duplicate column(s)", e.Count)
}

// ValidateDirectives checks that no two directives target the same column.
// Column indices are checked against row width only while streaming.
func ValidateDirectives(ds []domain.Directive) error {
	seen := make(map[int]struct{}, len(ds))
	for _, d := range ds {
		if d.Column < 0 {
			return fmt.Errorf("directive %s: column must be >= 0", d)
		}
		seen[d.Column] = struct{}{}
	}
	if len(seen) != len(ds) {
		return &DuplicateColumnsError{Count: len(ds) - len(seen)}
	}
	return nil
}

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// Validate runs ValidateDirectives and checks every kind has a generator.
func (v *Validator) Validate(ds []domain.Directive) error {
	if err := ValidateDirectives(ds); err != nil {
		return err
	}
	for _, d := range ds {
		if d.Kind.IsZero() {
			return fmt.Errorf("directive for column %d has no generator kind", d.Column)
		}
		if v.genRegistry != nil && !v.genRegistry.Has(d.Kind) {
			return fmt.Errorf("directive %s: generator not found: %s", d, d.Kind)
		}
	}
	return nil
}

// ParseAndValidate parses tokens and validates the resulting set.
func (v *Validator) ParseAndValidate(tokens []string) ([]domain.Directive, error) {
	ds, err := directive.ParseAll(tokens)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (v *Validator) ValidateProfile(p *domain.Profile) error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if p.Delimiter != "" {
		if _, err := ParseDelimiter(p.Delimiter); err != nil {
			return fmt.Errorf("profile '%s': %w", p.Name, err)
		}
	}
	if err := ValidateMemoScope(p.MemoScope); err != nil {
		return fmt.Errorf("profile '%s': %w", p.Name, err)
	}
	if _, err := v.ParseAndValidate(p.Directives); err != nil {
		return fmt.Errorf("profile '%s': %w", p.Name, err)
	}
	return nil
}

func (v *Validator) ValidateRunRequest(req *domain.RunRequest) error {
	if req.Delimiter != "" {
		if _, err := ParseDelimiter(req.Delimiter); err != nil {
			return err
		}
	}
	if err := ValidateMemoScope(req.MemoScope); err != nil {
		return err
	}
	if req.SQLiteOut != "" {
		if req.Table == "" {
			return errors.New("table is required when writing to sqlite")
		}
		if !IsValidIdentifier(req.Table) {
			return fmt.Errorf("invalid table identifier: %s", req.Table)
		}
	}
	return nil
}

func ValidateMemoScope(s domain.MemoScope) error {
	switch s {
	case "", domain.MemoScopeValue, domain.MemoScopeKind:
		return nil
	default:
		return fmt.Errorf("invalid memo scope: %s", s)
	}
}

// ParseDelimiter accepts exactly one single-byte character that can frame a
// CSV field.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` || strings.EqualFold(s, "tab") {
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single byte, got %q", s)
	}
	r := rune(s[0])
	if r == 0 || r == '"' || r == '\r' || r == '\n' || r >= 0x80 {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// identifier validation: allow simple SQL identifiers only (prevents injection via table/column names).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}
