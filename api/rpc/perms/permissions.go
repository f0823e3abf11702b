package perms

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/filecoin-project/go-jsonrpc/auth"
)

const (
	// Public methods can be called without a token.
	Public auth.Permission = "public"
	// Read allows querying the heads of the local chain.
	Read auth.Permission = "read"
	// Write allows moving the best and finalized heads of the local chain.
	Write auth.Permission = "write"
)

var (
	DefaultPerms   = []auth.Permission{Public}
	ReadPerms      = []auth.Permission{Public, Read}
	ReadWritePerms = []auth.Permission{Public, Read, Write}
)

// levels maps permission levels tokens are issued for to the permissions they grant.
var levels = map[string][]auth.Permission{
	"public": DefaultPerms,
	"read":   ReadPerms,
	"write":  ReadWritePerms,
	// no method needs more than write
	"admin": ReadWritePerms,
}

// FromLevel returns the permissions granted by the given level.
func FromLevel(level string) ([]auth.Permission, error) {
	perms, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("perms: unknown permission level: %s", level)
	}
	return perms, nil
}

var AuthKey = "Authorization"

// JWTPayload is the set of claims signed into relay tokens.
type JWTPayload struct {
	Allow []auth.Permission
	Nonce []byte
	// ExpiresAt is zero for tokens that never expire.
	ExpiresAt time.Time
}

// NewTokenWithPerms signs a new token granting the given permissions.
// Zero ttl issues a token that never expires.
func NewTokenWithPerms(signer jwt.Signer, perms []auth.Permission, ttl time.Duration) ([]byte, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}

	p := &JWTPayload{
		Allow: perms,
		Nonce: nonce[:],
	}
	if ttl > 0 {
		p.ExpiresAt = time.Now().UTC().Add(ttl)
	}
	token, err := jwt.NewBuilder(signer).Build(p)
	if err != nil {
		return nil, err
	}
	return token.Bytes(), nil
}
