package credential

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDecode_RoundTrip(t *testing.T) {
	c := NewCodec([]byte("test-secret"))
	id := uuid.New()

	token, err := c.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecode_Garbage(t *testing.T) {
	c := NewCodec([]byte("test-secret"))

	for _, token := range []string{
		"not-a-token",
		"a.b.c",
		"",
		"eyJhbGciOiJIUzI1NiJ9.e30.xxx",
	} {
		_, err := c.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidCredential, "token %q", token)
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	issuer := NewCodec([]byte("secret-a"))
	verifier := NewCodec([]byte("secret-b"))

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDecode_MissingClaim(t *testing.T) {
	// Structurally valid, correctly signed, but without a cart id claim.
	secret := []byte("test-secret")
	empty, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString(secret)
	require.NoError(t, err)

	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cart_id": "definitely-not-a-uuid",
	}).SignedString(secret)
	require.NoError(t, err)

	c := NewCodec(secret)
	for _, token := range []string{empty, badID} {
		_, err := c.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	}
}
