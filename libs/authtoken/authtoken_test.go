package authtoken

import (
	"testing"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/head-relay/api/rpc/perms"
)

func newSigner(t *testing.T, key []byte) *jwt.HSAlg {
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	require.NoError(t, err)
	return signer
}

func TestMalformedPermissionsToken(t *testing.T) {
	signer := newSigner(t, make([]byte, 32))
	token, err := jwt.NewBuilder(signer).Build([]byte("````````bad89045353@@@"))
	require.NoError(t, err)

	_, err = ExtractSignedPermissions(signer, token.String())
	assert.Error(t, err)
}

type invalidTokenBuilder struct{ Message string }

func TestNoPermissions(t *testing.T) {
	signer := newSigner(t, make([]byte, 32))
	token, err := jwt.NewBuilder(signer).Build(&invalidTokenBuilder{Message: "no perms"})
	require.NoError(t, err)

	allow, err := ExtractSignedPermissions(signer, token.String())
	require.NoError(t, err)
	assert.Empty(t, allow)
}

func TestSignedPermissions(t *testing.T) {
	signer := newSigner(t, make([]byte, 32))

	token, err := perms.NewTokenWithPerms(signer, perms.ReadWritePerms, time.Hour)
	require.NoError(t, err)
	allow, err := ExtractSignedPermissions(signer, string(token))
	require.NoError(t, err)
	assert.Equal(t, perms.ReadWritePerms, allow)

	other := newSigner(t, []byte("another secret of thirty-two bytes"))
	_, err = ExtractSignedPermissions(other, string(token))
	assert.Error(t, err)

	expired, err := jwt.NewBuilder(signer).Build(&perms.JWTPayload{
		Allow:     perms.ReadPerms,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	_, err = ExtractSignedPermissions(signer, expired.String())
	require.ErrorIs(t, err, ErrTokenExpired)

	forever, err := perms.NewTokenWithPerms(signer, perms.ReadPerms, 0)
	require.NoError(t, err)
	allow, err = ExtractSignedPermissions(signer, string(forever))
	require.NoError(t, err)
	assert.Equal(t, perms.ReadPerms, allow)
}
