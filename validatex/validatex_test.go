package validatex

import (
	"errors"
	"testing"
)

type endpoint struct {
	URL string `validatex:"url"`
}

type request struct {
	Key      string  `validatex:"required"`
	Format   string  `validatex:"regex=^[a-z]+/[a-z0-9.+-]+$"`
	Engine   int     `validatex:"oneof=0 1 2 3"`
	Name     string  `validatex:"min=3,max=5"`
	Optional *string `validatex:"min=2"`
	Target   endpoint
	ignored  string `validatex:"required"`
}

func TestValidatePasses(t *testing.T) {
	opt := "ok"
	r := request{
		Key:      "k",
		Format:   "image/png",
		Engine:   2,
		Name:     "abcd",
		Optional: &opt,
		Target:   endpoint{URL: "https://api.ocr.space/parse/image"},
	}
	if err := Validate(r); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateSkipsZeroOptionalFields(t *testing.T) {
	if err := Validate(&request{Key: "k"}); err != nil {
		t.Fatalf("zero optional fields should pass, got %v", err)
	}
}

func TestValidateCollectsFailures(t *testing.T) {
	r := request{
		Key:    "   ",
		Format: "gif",
		Engine: 9,
		Name:   "toolong",
		Target: endpoint{URL: "ftp://example.com"},
	}

	err := Validate(r)
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %T %v", err, err)
	}

	for _, field := range []string{"Key", "Format", "Engine", "Name", "Target.URL"} {
		if !verrs.Has(field) {
			t.Fatalf("expected %s to fail, got %v", field, verrs.Fields())
		}
	}
	if len(verrs) != 5 {
		t.Fatalf("unexpected failure count: %v", verrs)
	}
}

func TestValidateRejectsNonStruct(t *testing.T) {
	if err := Validate("nope"); !errors.Is(err, ErrNotStruct) {
		t.Fatalf("expected ErrNotStruct, got %v", err)
	}
}

func TestUnknownRule(t *testing.T) {
	type bad struct {
		V string `validatex:"shiny"`
	}
	if err := Validate(bad{V: "x"}); err == nil {
		t.Fatalf("expected unknown rule error")
	}
}

func TestCustomRule(t *testing.T) {
	RegisterValidationFunc("even", func(value any, _ string) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	})
	type numbered struct {
		N int `validatex:"even"`
	}
	if err := Validate(numbered{N: 3}); err == nil {
		t.Fatalf("expected custom rule failure")
	}
	if err := Validate(numbered{N: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
