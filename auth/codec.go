package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload consumed by the codec.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens against a shared HMAC-SHA256
// secret. Verification is stateless: each call is independent and
// nothing is cached across requests.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec bound to the configured signing secret
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign produces a token embedding username, role and an absolute
// expiry. Production issuance is external; this is used by tests and
// the tokengen tool.
func (c *Codec) Sign(username, role string, expiresIn time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify validates a raw token string and returns the principal it
// carries. Checks run in order and short-circuit on first failure:
// structure, signature, expiry-required policy, claim completeness.
func (c *Codec) Verify(token string) (*Principal, *Error) {
	// Structural check before any cryptographic work: a JWT is exactly
	// three dot-separated segments.
	if token == "" || strings.Count(token, ".") != 2 {
		return nil, NewError(KindInvalidFormat, "token does not match the three-segment JWT structure")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, classifyParseError(err)
	}

	// Expiry-required policy: a token that was never given an expiry is
	// invalid, not "never expires", even when the signature checks out.
	if claims.ExpiresAt == nil {
		return nil, NewError(KindInvalidClaims, "token is missing the expiry claim (exp)")
	}

	if claims.Username == "" || claims.Role == "" {
		return nil, NewError(KindInvalidClaims, "token is missing required claims (username or role)")
	}

	return &Principal{
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// classifyParseError maps golang-jwt parse failures onto the closed
// error taxonomy.
func classifyParseError(err error) *Error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return NewError(KindExpired, "token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return NewError(KindInvalidSignature, "token signature verification failed")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return NewError(KindInvalidClaims, "token is not valid yet")
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenUnverifiable):
		return NewError(KindInvalidFormat, "token is malformed: "+err.Error())
	default:
		return NewError(KindUnknown, "token verification failed with an unknown error")
	}
}
