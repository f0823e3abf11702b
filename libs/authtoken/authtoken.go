package authtoken

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/filecoin-project/go-jsonrpc/auth"

	"github.com/celestiaorg/head-relay/api/rpc/perms"
)

// ErrTokenExpired is returned for tokens past their expiration time.
var ErrTokenExpired = errors.New("authtoken: token expired")

// ExtractSignedPermissions returns the permissions granted to the token by the passed signer.
// If the token isn't signed by the signer, it will not pass verification.
func ExtractSignedPermissions(verifier jwt.Verifier, token string) ([]auth.Permission, error) {
	tk, err := jwt.Parse([]byte(token), verifier)
	if err != nil {
		return nil, err
	}
	p := new(perms.JWTPayload)
	err = json.Unmarshal(tk.Claims(), p)
	if err != nil {
		return nil, err
	}
	if !p.ExpiresAt.IsZero() && time.Now().After(p.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return p.Allow, nil
}
