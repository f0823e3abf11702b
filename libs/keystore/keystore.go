package keystore

import (
	"errors"

	"github.com/multiformats/go-base32"
)

// ErrNotFound is returned when the requested key is not in the Keystore.
var ErrNotFound = errors.New("keystore: key not found")

// Keystore is an access layer to private keys of the node.
type Keystore interface {
	// Put adds the given PrivKey under the given KeyName.
	Put(KeyName, PrivKey) error
	// Get returns the PrivKey stored under the given KeyName.
	Get(KeyName) (PrivKey, error)
	// Delete removes the PrivKey stored under the given KeyName.
	Delete(KeyName) error
	// List lists all the stored KeyNames.
	List() ([]KeyName, error)
}

// KeyName represents private key name.
type KeyName string

// Base32 encodes the KeyName so it is safe to use as a file name.
func (kn KeyName) Base32() string {
	return base32.RawStdEncoding.EncodeToString([]byte(kn))
}

// KeyNameFromBase32 decodes KeyName from the Base32 form.
func KeyNameFromBase32(bs string) (KeyName, error) {
	name, err := base32.RawStdEncoding.DecodeString(bs)
	if err != nil {
		return "", err
	}
	return KeyName(name), nil
}

// String implements fmt.Stringer.
func (kn KeyName) String() string {
	return string(kn)
}

// PrivKey represents private key with the raw bytes in Body.
type PrivKey struct {
	Body []byte `json:"body"`
}
