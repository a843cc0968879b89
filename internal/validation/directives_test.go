package validation

import (
	"errors"
	"testing"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/registry"
)

func word(col int) domain.Directive {
	return domain.Directive{Column: col, Kind: domain.MustKind(domain.MajorLorem, domain.LoremWord)}
}

func TestValidateDirectives_Duplicates(t *testing.T) {
	ds := []domain.Directive{word(2), word(0), word(2), word(2), word(1)}
	err := ValidateDirectives(ds)
	var dup *DuplicateColumnsError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateColumnsError, got %v", err)
	}
	if dup.Count != 2 {
		t.Fatalf("expected 2 excess duplicates, got %d", dup.Count)
	}
	if dup.Error() != "rewrite directives contained 2 duplicate column(s)" {
		t.Fatalf("unexpected message: %q", dup.Error())
	}
}

func TestValidateDirectives_DistinctColumns(t *testing.T) {
	if err := ValidateDirectives([]domain.Directive{word(5), word(0), word(3)}); err != nil {
		t.Fatalf("expected valid set, got %v", err)
	}
	if err := ValidateDirectives(nil); err != nil {
		t.Fatalf("expected empty set to pass duplicate check, got %v", err)
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry(1))
	if err := v.Validate(nil); err != nil {
		t.Fatalf("expected empty directive set to pass, got %v", err)
	}
	if err := v.Validate([]domain.Directive{{Column: 0}}); err == nil {
		t.Fatal("expected error for zero kind")
	}

	empty := NewValidator(registry.NewGeneratorRegistry(1))
	if err := empty.Validate([]domain.Directive{word(0)}); err == nil {
		t.Fatal("expected error when no generator is registered")
	}
}

func TestValidator_ParseAndValidate(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry(1))
	ds, err := v.ParseAndValidate([]string{"1:internet.safe_email", "0:name.first_name"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(ds))
	}

	_, err = v.ParseAndValidate([]string{"1:lorem.word", "1:lorem.sentence"})
	var dup *DuplicateColumnsError
	if !errors.As(err, &dup) || dup.Count != 1 {
		t.Fatalf("expected one duplicate, got %v", err)
	}
}

func TestValidator_ValidateProfile(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry(1))
	good := &domain.Profile{Name: "users", Delimiter: ";", Directives: []string{"1:name.name"}}
	if err := v.ValidateProfile(good); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}

	bad := []*domain.Profile{
		{Directives: []string{"1:name.name"}},
		{Name: "p", Delimiter: "::", Directives: []string{"1:name.name"}},
		{Name: "p", MemoScope: "row", Directives: []string{"1:name.name"}},
		{Name: "p", Directives: []string{"1:name.nope"}},
	}
	for i, p := range bad {
		if err := v.ValidateProfile(p); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestValidator_ValidateRunRequest(t *testing.T) {
	v := NewValidator(registry.DefaultGeneratorRegistry(1))
	if err := v.ValidateRunRequest(&domain.RunRequest{}); err != nil {
		t.Fatalf("expected request without directives to pass, got %v", err)
	}
	if err := v.ValidateRunRequest(&domain.RunRequest{Directives: []string{"0:id.uuid"}, SQLiteOut: "x.db", Table: "select"}); err == nil {
		t.Fatal("expected reserved table name to be rejected")
	}
	if err := v.ValidateRunRequest(&domain.RunRequest{Directives: []string{"0:id.uuid"}, SQLiteOut: "x.db", Table: "people"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateMemoScope(t *testing.T) {
	for _, s := range []domain.MemoScope{"", domain.MemoScopeValue, domain.MemoScopeKind} {
		if err := ValidateMemoScope(s); err != nil {
			t.Fatalf("scope %q: %v", s, err)
		}
	}
	if err := ValidateMemoScope("column"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}
