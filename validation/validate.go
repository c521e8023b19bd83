package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/userauth/errors"
)

// FieldError is one entry of the "fields" detail in an INVALID_INPUT error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// messages maps a rule to its client-facing text. Rules listed with
// presence set mean the client left the field out.
var messages = map[string]struct {
	text     func(param string) string
	presence bool
}{
	"required":             {func(string) string { return "is required" }, true},
	"notblank":             {func(string) string { return "is required" }, true},
	"required_without_all": {func(string) string { return "is required when no other field is given" }, true},
	"email":                {func(string) string { return "must be a valid email address" }, false},
	"min":                  {func(p string) string { return "must be at least " + p + " characters" }, false},
	"max":                  {func(p string) string { return "must be at most " + p + " characters" }, false},
}

var instance = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	// notblank rejects strings that are empty once trimmed.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() != reflect.String || strings.TrimSpace(f.String()) != ""
	})
	return v
})

// Validate checks s against its `validate` tags. If every failure is a
// missing value the result is MISSING_FIELDS naming those fields; otherwise
// it is INVALID_INPUT with one FieldError per failure.
func Validate(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !stderrors.As(err, &failures) {
		return errors.InvalidInput("validation failed")
	}

	var missing []string
	details := make([]FieldError, 0, len(failures))
	summary := make([]string, 0, len(failures))
	for _, f := range failures {
		m, known := messages[f.Tag()]
		text := "is invalid"
		if known {
			text = m.text(f.Param())
		}
		if m.presence {
			missing = append(missing, f.Field())
		}
		details = append(details, FieldError{Field: f.Field(), Message: text})
		summary = append(summary, f.Field()+": "+text)
	}

	if len(missing) == len(failures) {
		return errors.MissingFields(missing...)
	}
	return errors.InvalidInput(strings.Join(summary, "; ")).WithDetail("fields", details)
}

// jsonName reports fields by their JSON key, falling back to snake case.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name != "" && name != "-" {
		return name
	}
	var b strings.Builder
	for i, r := range f.Name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
