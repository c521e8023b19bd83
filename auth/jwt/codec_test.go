package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T, secret string) *Codec {
	t.Helper()
	c, err := NewCodec(&Config{Secret: secret}, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func testSubject() Subject {
	return Subject{
		ID:      "65f1c0ffee0000000000abcd",
		Name:    "John",
		Surname: "Doe",
		Email:   "john@test.com",
		Role:    "ROLE_USER",
	}
}

func TestCodec_IssueDecodeRoundTrip(t *testing.T) {
	c := newTestCodec(t, "secret")

	token, err := c.Issue(testSubject())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := c.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if claims.UserID() != "65f1c0ffee0000000000abcd" {
		t.Errorf("unexpected sub %q", claims.Subject)
	}
	if claims.Name != "John" || claims.Surname != "Doe" {
		t.Errorf("unexpected name %q %q", claims.Name, claims.Surname)
	}
	if claims.Email != "john@test.com" || claims.Role != "ROLE_USER" {
		t.Errorf("unexpected email/role %q %q", claims.Email, claims.Role)
	}
	if got := claims.IssuedAt.Unix(); got != fixedNow.Unix() {
		t.Errorf("expected iat %d, got %d", fixedNow.Unix(), got)
	}
	if got, want := claims.ExpiresAt.Unix(), fixedNow.Add(DefaultTTL).Unix(); got != want {
		t.Errorf("expected exp %d, got %d", want, got)
	}
}

func TestCodec_EncodeExplicitExpiry(t *testing.T) {
	c := newTestCodec(t, "secret")
	exp := fixedNow.Add(time.Minute)

	token, err := c.Encode(Claims{
		Email:            "a@b.c",
		Role:             "ROLE_USER",
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "1"},
	}, exp)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	claims, err := c.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.ExpiresAt.Unix() != exp.Unix() {
		t.Errorf("expected exp %d, got %d", exp.Unix(), claims.ExpiresAt.Unix())
	}
}

func TestCodec_DecodeDoesNotEnforceExpiry(t *testing.T) {
	c := newTestCodec(t, "secret")
	token, err := c.Encode(Claims{
		Email:            "a@b.c",
		Role:             "ROLE_USER",
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "1"},
	}, fixedNow.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	claims, err := c.Decode(token)
	if err != nil {
		t.Fatalf("expected expired token to decode, got %v", err)
	}
	if !claims.Expired(fixedNow) {
		t.Error("expected claims to report expired")
	}
}

func TestCodec_DetectsEveryByteFlip(t *testing.T) {
	c := newTestCodec(t, "secret")
	token, err := c.Issue(testSubject())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for i := 0; i < len(token); i++ {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := c.Decode(string(b)); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("flip at %d: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	token, err := newTestCodec(t, "secret-a").Issue(testSubject())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := newTestCodec(t, "secret-b").Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t, "secret")
	claims := &Claims{
		Email: "a@b.c",
		Role:  "ROLE_USER",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: gojwt.NewNumericDate(fixedNow.Add(time.Hour)),
		},
	}

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := c.Decode(none); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected alg=none to be rejected, got %v", err)
	}

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, err := c.Decode(hs512); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected HS512 to be rejected by an HS256 codec, got %v", err)
	}
}

func TestCodec_RequiresClaims(t *testing.T) {
	c := newTestCodec(t, "secret")
	tests := []struct {
		name   string
		claims Claims
	}{
		{"missing sub", Claims{Email: "a@b.c", Role: "ROLE_USER"}},
		{"missing email", Claims{Role: "ROLE_USER", RegisteredClaims: gojwt.RegisteredClaims{Subject: "1"}}},
		{"missing role", Claims{Email: "a@b.c", RegisteredClaims: gojwt.RegisteredClaims{Subject: "1"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := c.Encode(tc.claims, fixedNow.Add(time.Hour))
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if _, err := c.Decode(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	noExp, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &Claims{
		Email: "a@b.c", Role: "ROLE_USER", RegisteredClaims: gojwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Decode(noExp); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected token without exp to be rejected, got %v", err)
	}
}

func TestCodec_DecodeGarbage(t *testing.T) {
	c := newTestCodec(t, "secret")
	for _, token := range []string{"", "abc", "a.b.c", "....", "Bearer x.y.z"} {
		if _, err := c.Decode(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Decode(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestClaims_ExpiredBoundary(t *testing.T) {
	now := fixedNow
	tests := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"exp equals now", now, true},
		{"exp in the past", now.Add(-time.Second), true},
		{"exp one second ahead", now.Add(time.Second), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &Claims{RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(tc.exp)}}
			if got := c.Expired(now); got != tc.want {
				t.Errorf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}

	if !(&Claims{}).Expired(now) {
		t.Error("expected claims without exp to be expired")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Secret: "s"}, false},
		{"missing secret", Config{}, true},
		{"unsupported method", Config{Secret: "s", Method: "RS256"}, true},
		{"negative ttl", Config{Secret: "s", TTL: -time.Second}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewCodec_InvalidConfig(t *testing.T) {
	if _, err := NewCodec(&Config{}); err == nil {
		t.Error("expected error without secret")
	}
}
