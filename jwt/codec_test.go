package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Now: fixedClock(now)})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func TestSignVerifyRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := newTestCodec(t, now)

	serial := now.Add(-time.Hour)
	token, err := c.Sign(Claims{
		ObjectID: "u1",
		Role:     "Admin",
		Scope:    "read",
		Serial:   Date(serial),
		Email:    "u1@example.com",
		IPAddr:   "10.0.0.1",
	}, "s3cret", Envelope{ID: "t1", Issuer: "app", Audience: "app", Subject: "user:internal", ExpiresIn: time.Hour})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", token)
	}

	claims, err := c.Verify(token, "s3cret")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != "t1" || claims.Issuer != "app" || claims.Audience != "app" || claims.Subject != "user:internal" {
		t.Fatalf("unexpected envelope: %+v", claims)
	}
	if claims.ObjectID != "u1" || claims.Role != "Admin" || claims.Scope != "read" || claims.Email != "u1@example.com" || claims.IPAddr != "10.0.0.1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !Time(claims.Serial).Equal(serial) {
		t.Fatalf("serial mismatch: %v", Time(claims.Serial))
	}
	if !Time(claims.IssuedAt).Equal(now) || !Time(claims.ExpiresAt).Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected times iat=%v exp=%v", Time(claims.IssuedAt), Time(claims.ExpiresAt))
	}
}

func TestSignIsDeterministic(t *testing.T) {
	c := newTestCodec(t, time.Unix(1_700_000_000, 0))
	env := Envelope{ID: "t1", Issuer: "app", Audience: "app", Subject: "remote", ExpiresIn: time.Minute}

	a, err := c.Sign(Claims{Role: "Application"}, "k", env)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	b, err := c.Sign(Claims{Role: "Application"}, "k", env)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if a != b {
		t.Fatal("expected identical tokens for identical input and clock")
	}
}

func TestSignRejectsEmptySecret(t *testing.T) {
	c := newTestCodec(t, time.Now())
	if _, err := c.Sign(Claims{}, "", Envelope{ExpiresIn: time.Minute}); !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestVerifyWrongSecretIsSignatureError(t *testing.T) {
	c := newTestCodec(t, time.Now())
	token, err := c.Sign(Claims{}, "right", Envelope{ExpiresIn: time.Minute})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = c.Verify(token, "wrong")
	if !errors.Is(err, ErrSignature) {
		t.Fatalf("expected ErrSignature, got %v", err)
	}
	if errors.Is(err, ErrExpired) || errors.Is(err, ErrMalformed) {
		t.Fatalf("error matched more than one kind: %v", err)
	}
}

func TestVerifyExpiredRegardlessOfSignature(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	signer := newTestCodec(t, issued)
	token, err := signer.Sign(Claims{}, "right", Envelope{ExpiresIn: time.Minute})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	later := newTestCodec(t, issued.Add(2*time.Minute))
	for _, secret := range []string{"right", "wrong"} {
		_, err := later.Verify(token, secret)
		var expired *ExpiredError
		if !errors.As(err, &expired) {
			t.Fatalf("secret %q: expected *ExpiredError, got %v", secret, err)
		}
		if !errors.Is(err, ErrExpired) {
			t.Fatalf("secret %q: expected ErrExpired match", secret)
		}
		if !expired.ExpiresAt.Equal(issued.Add(time.Minute)) {
			t.Fatalf("unexpected expiry %v", expired.ExpiresAt)
		}
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := newTestCodec(t, time.Now())
	for _, in := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"} {
		if _, err := c.Verify(in, "k"); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestVerifyRejectsForeignAlgorithm(t *testing.T) {
	c := newTestCodec(t, time.Now())
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS512, &Claims{ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute))})
	signed, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(signed, "k"); !errors.Is(err, ErrSignature) {
		t.Fatalf("expected ErrSignature for HS512 token on HS256 codec, got %v", err)
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	c := newTestCodec(t, time.Now())
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, &Claims{Subject: "remote"})
	signed, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(signed, "k"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for token without exp, got %v", err)
	}
}

func TestDecodeNeverFails(t *testing.T) {
	c := newTestCodec(t, time.Now())
	if claims, ok := c.Decode("not.a.token"); ok || claims != nil {
		t.Fatalf("expected nil,false for garbage, got %+v,%v", claims, ok)
	}

	token, err := c.Sign(Claims{Role: "Public"}, "k", Envelope{Issuer: "a", Audience: "b", Subject: "remote", ExpiresIn: time.Minute})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, ok := c.Decode(token)
	if !ok || claims.Issuer != "a" || claims.Audience != "b" || claims.Subject != "remote" {
		t.Fatalf("unexpected decode result %+v,%v", claims, ok)
	}
}

func TestNewCodecValidation(t *testing.T) {
	if _, err := NewCodec(Config{Method: "rs256"}); err == nil {
		t.Fatal("expected unsupported method error")
	}
	if _, err := NewCodec(Config{Leeway: -time.Second}); err == nil {
		t.Fatal("expected negative leeway error")
	}
	if _, err := NewCodec(Config{Method: MethodHS512}); err != nil {
		t.Fatalf("hs512: %v", err)
	}
}

func TestLeewayAcceptsRecentlyExpired(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	signer := newTestCodec(t, issued)
	token, err := signer.Sign(Claims{}, "k", Envelope{ExpiresIn: time.Minute})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, err := NewCodec(Config{Leeway: 30 * time.Second, Now: fixedClock(issued.Add(70 * time.Second))})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if _, err := c.Verify(token, "k"); err != nil {
		t.Fatalf("expected token within leeway to verify: %v", err)
	}
}
