package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the HMAC variant used to sign and verify tokens.
type SigningMethod string

const (
	MethodHS256 SigningMethod = "hs256"
	MethodHS384 SigningMethod = "hs384"
	MethodHS512 SigningMethod = "hs512"
)

var (
	// ErrEncoding is returned by Sign when a token cannot be produced.
	ErrEncoding = errors.New("token encoding failed")
	// ErrSignature is returned by Verify when the signature does not match.
	ErrSignature = errors.New("invalid token signature")
	// ErrExpired is matched by every *ExpiredError.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned by Verify when the token cannot be parsed.
	ErrMalformed = errors.New("malformed token")
)

// ExpiredError reports a token whose exp claim lies in the past.
type ExpiredError struct {
	ExpiresAt time.Time
	Now       time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token expired at %s, current time %s",
		e.ExpiresAt.UTC().Format(time.RFC3339), e.Now.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Is(target error) bool {
	return target == ErrExpired
}

// Config configures a Codec.
type Config struct {
	Method SigningMethod
	Leeway time.Duration
	Now    func() time.Time
}

// Codec signs and verifies compact bearer tokens. It holds no secrets; every
// call receives the secret to use, so a Codec is safe for concurrent use.
type Codec struct {
	method jwt.SigningMethod
	leeway time.Duration
	now    func() time.Time
}

// NewCodec validates cfg and returns a Codec. An empty method selects HS256.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	method, err := signingMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{method: method, leeway: cfg.Leeway, now: now}, nil
}

// Sign stamps env onto claims and signs the result with secret.
// iat and nbf are set to the current time and exp to iat + env.ExpiresIn.
func (c *Codec) Sign(claims Claims, secret string, env Envelope) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: empty secret", ErrEncoding)
	}

	now := c.now()
	claims.ID = env.ID
	claims.Issuer = env.Issuer
	claims.Audience = env.Audience
	claims.Subject = env.Subject
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(env.ExpiresIn))

	token := jwt.NewWithClaims(c.method, &claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return signed, nil
}

// Decode parses token without verifying it. It never fails; ok is false when
// the token is not a decodable compact JWS.
func (c *Codec) Decode(token string) (claims *Claims, ok bool) {
	claims = &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Verify checks the signature and time claims of token against secret.
//
// Expiry is judged before the signature so that an expired token is always
// reported as *ExpiredError. Failures match ErrSignature, ErrExpired or
// ErrMalformed under errors.Is.
func (c *Codec) Verify(token, secret string) (*Claims, error) {
	token = strings.TrimSpace(token)
	unverified, ok := c.Decode(token)
	if !ok {
		return nil, fmt.Errorf("%w: token is not a compact JWS", ErrMalformed)
	}

	now := c.now()
	if unverified.ExpiresAt != nil && now.After(unverified.ExpiresAt.Time.Add(c.leeway)) {
		return nil, &ExpiredError{ExpiresAt: unverified.ExpiresAt.Time, Now: now}
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrSignature)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithLeeway(c.leeway),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, classify(err, claims, now)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: token rejected", ErrMalformed)
	}
	return claims, nil
}

func classify(err error, claims *Claims, now time.Time) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &ExpiredError{ExpiresAt: Time(claims.ExpiresAt), Now: now}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

func signingMethod(m SigningMethod) (jwt.SigningMethod, error) {
	switch SigningMethod(strings.ToLower(string(m))) {
	case "", MethodHS256:
		return jwt.SigningMethodHS256, nil
	case MethodHS384:
		return jwt.SigningMethodHS384, nil
	case MethodHS512:
		return jwt.SigningMethodHS512, nil
	default:
		return nil, errors.New("unsupported signing method")
	}
}
