package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzKeyStoreName(f *testing.F) {
	corpus := []string{
		"test",
		"test2",
		"test3",
		">F?FD?FDSJFKL$&*(#W)",
	}

	for _, c := range corpus {
		f.Add(c)
	}

	f.Fuzz(func(t *testing.T, data string) {
		k := KeyName(data)
		encoded := k.Base32()
		if _, err := KeyNameFromBase32(encoded); err != nil {
			t.Errorf("error decoding base32: %v", err)
		}
	})
}

func TestKeystores(t *testing.T) {
	fs, err := NewFSKeystore(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)

	for name, ks := range map[string]Keystore{
		"fs":  fs,
		"map": NewMapKeystore(),
	} {
		t.Run(name, func(t *testing.T) {
			key := PrivKey{Body: []byte("secret")}
			require.NoError(t, ks.Put("jwt", key))
			require.Error(t, ks.Put("jwt", key))

			got, err := ks.Get("jwt")
			require.NoError(t, err)
			assert.Equal(t, key, got)

			names, err := ks.List()
			require.NoError(t, err)
			assert.Equal(t, []KeyName{"jwt"}, names)

			require.NoError(t, ks.Delete("jwt"))
			_, err = ks.Get("jwt")
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, ks.Delete("jwt"), ErrNotFound)
		})
	}
}

func TestFSKeystore_Permissions(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewFSKeystore(dir)
	require.NoError(t, err)
	require.NoError(t, ks.Put("p2p", PrivKey{Body: []byte("secret")}))

	require.NoError(t, os.Chmod(filepath.Join(dir, KeyName("p2p").Base32()), 0o644))
	_, err = ks.Get("p2p")
	require.Error(t, err)
}
