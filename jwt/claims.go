package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the exact claim set carried by a tyx bearer token.
//
// The audience is a single string on the wire. Serial (ist) is the time the
// first token of a renewal chain was issued and is carried unchanged across
// renewals.
type Claims struct {
	ID        string           `json:"jti,omitempty"`
	Serial    *jwt.NumericDate `json:"ist,omitempty"`
	Issuer    string           `json:"iss,omitempty"`
	Audience  string           `json:"aud,omitempty"`
	Subject   string           `json:"sub,omitempty"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	NotBefore *jwt.NumericDate `json:"nbf,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`

	ObjectID string `json:"oid,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	IPAddr   string `json:"ipaddr,omitempty"`
	Role     string `json:"role,omitempty"`
	Scope    string `json:"scope,omitempty"`
}

// Envelope carries the registered claims that Sign stamps onto a token.
type Envelope struct {
	ID        string
	Issuer    string
	Audience  string
	Subject   string
	ExpiresIn time.Duration
}

var _ jwt.Claims = (*Claims)(nil)

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c *Claims) GetNotBefore() (*jwt.NumericDate, error)      { return c.NotBefore, nil }
func (c *Claims) GetIssuer() (string, error)                   { return c.Issuer, nil }
func (c *Claims) GetSubject() (string, error)                  { return c.Subject, nil }

func (c *Claims) GetAudience() (jwt.ClaimStrings, error) {
	if c.Audience == "" {
		return nil, nil
	}
	return jwt.ClaimStrings{c.Audience}, nil
}

// Time returns the time held by d, or the zero time when d is nil.
func Time(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// Date converts t to a NumericDate, mapping the zero time to nil.
func Date(t time.Time) *jwt.NumericDate {
	if t.IsZero() {
		return nil
	}
	return jwt.NewNumericDate(t)
}
