package nodebuilder

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/cristalhq/jwt/v5"

	"github.com/celestiaorg/head-relay/libs/keystore"
)

// SecretName is the name of the JWT secret of the node in the Keystore.
const SecretName = "jwt-secret"

// secret returns the node's JWT secret if it exists, or generates
// and saves a new one if it does not.
func secret(ks keystore.Keystore) (jwt.Signer, jwt.Verifier, error) {
	key, err := Secret(ks)
	if err != nil {
		return nil, nil, err
	}

	alg, err := jwt.NewSignerHS(jwt.HS256, key.Body)
	if err != nil {
		return nil, nil, err
	}
	return alg, alg, nil
}

// Secret loads the node's JWT secret from the Keystore, generating and saving a new one
// if there is none.
func Secret(ks keystore.Keystore) (keystore.PrivKey, error) {
	key, err := ks.Get(SecretName)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, keystore.ErrNotFound) {
		return keystore.PrivKey{}, err
	}

	sk, err := io.ReadAll(io.LimitReader(rand.Reader, 32))
	if err != nil {
		return keystore.PrivKey{}, err
	}
	key = keystore.PrivKey{Body: sk}
	return key, ks.Put(SecretName, key)
}
