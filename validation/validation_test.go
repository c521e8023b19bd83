package validation

import (
	"reflect"
	"testing"

	"github.com/kbukum/userauth/errors"
)

type signup struct {
	FirstName string `json:"firstName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,max=64"`
	Nickname  string `validate:"required"`
}

type patch struct {
	Name    *string `json:"name" validate:"required_without_all=Surname"`
	Surname *string `json:"surname" validate:"required_without_all=Name"`
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(signup{FirstName: "John", Email: "a@b.c", Nickname: "jd"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(signup{FirstName: "   ", Email: "a@b.c"})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.ErrCodeMissingFields {
		t.Fatalf("expected MISSING_FIELDS, got %s", appErr.Code)
	}
	fields, _ := appErr.Details["fields"].([]string)
	if len(fields) != 2 || fields[0] != "firstName" || fields[1] != "nickname" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestValidate_OtherRule(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	err := Validate(signup{FirstName: "J", Email: string(long), Nickname: "n"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidate_RequiredWithoutAll(t *testing.T) {
	if !errors.HasCode(Validate(patch{}), errors.ErrCodeMissingFields) {
		t.Error("expected MISSING_FIELDS when no field is given")
	}
	name := "John"
	if err := Validate(patch{Name: &name}); err != nil {
		t.Errorf("expected one field to be enough, got %v", err)
	}
}

func TestJSONName(t *testing.T) {
	type input struct {
		Email        string `json:"email"`
		GetToken     bool   `json:"gettoken,omitempty"`
		PasswordHash string `json:"-"`
		CreatedAt    string
	}
	typ := reflect.TypeOf(input{})
	want := []string{"email", "gettoken", "password_hash", "created_at"}
	for i, w := range want {
		if got := jsonName(typ.Field(i)); got != w {
			t.Errorf("field %s: %q, want %q", typ.Field(i).Name, got, w)
		}
	}
}
