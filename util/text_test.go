package util

import "testing"

func TestDeref(t *testing.T) {
	if got := Deref(Ptr(42)); got != 42 {
		t.Errorf("Deref(Ptr(42)) = %d", got)
	}
	var sp *string
	if got := Deref(sp); got != "" {
		t.Errorf("Deref(nil) = %q, want zero value", got)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := map[string]string{
		"  John  ":          "John",
		"Jo\x00hn":          "John",
		"line1\n\tline2":    "line1line2",
		"":                  "",
		"Zoë O'Brien-Smith": "Zoë O'Brien-Smith",
	}
	for in, want := range tests {
		if got := SanitizeString(in); got != want {
			t.Errorf("SanitizeString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  John@Test.COM\n"); got != "john@test.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestSanitizeOptional(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"empty", Ptr(""), nil},
		{"whitespace", Ptr(" \t\n "), nil},
		{"control only", Ptr("\x00\x07"), nil},
		{"trimmed", Ptr("  Johnny \n"), Ptr("Johnny")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeOptional(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Errorf("got %q, want nil", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Errorf("got %v, want %q", got, *tc.want)
			}
		})
	}

	in := Ptr("name")
	if out := SanitizeOptional(in); out == in {
		t.Error("result must not alias the input")
	}
}
