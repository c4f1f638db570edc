// Package credential issues and verifies the signed bearer tokens that carry
// a cart identity between requests. Tokens are opaque to clients: the only
// value ever extracted server-side is the cart id.
package credential

import (
	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredential is returned by Decode when the token signature does
// not verify, the payload is malformed, or the cart id claim is missing or
// not a UUID. Callers are expected to recover by minting a new cart; this
// error is never surfaced to the client.
var ErrInvalidCredential = errors.New("invalid cart credential")

const cartIDClaim = "cart_id"

// Codec signs and verifies cart credentials with a process-lifetime secret.
// The secret is injected at construction and immutable afterwards.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
}

// NewCodec creates a Codec signing with HMAC-SHA256.
func NewCodec(secret []byte) *Codec {
	return &Codec{
		secret: secret,
		method: jwt.SigningMethodHS256,
	}
}

// Issue produces a signed token embedding the given cart id. It is a pure
// function of its input and the codec secret.
func (c *Codec) Issue(cartID uuid.UUID) (string, error) {
	tok := jwt.NewWithClaims(c.method, jwt.MapClaims{
		cartIDClaim: cartID.String(),
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign credential")
	}
	return signed, nil
}

// Decode verifies the token and extracts the embedded cart id.
// Any verification or structural failure maps to ErrInvalidCredential.
// No expiry is enforced: an expired-but-valid cart would only degrade to a
// fresh cart anyway, so tokens carry no time claims.
func (c *Codec) Decode(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidCredential
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidCredential
	}
	raw, ok := claims[cartIDClaim].(string)
	if !ok {
		return uuid.Nil, ErrInvalidCredential
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidCredential
	}
	return id, nil
}
