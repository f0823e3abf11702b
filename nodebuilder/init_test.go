package nodebuilder

import (
	"os"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfg := TestConfig()
	require.NoError(t, Init(*cfg, dir))
	assert.True(t, IsInit(dir))

	// reinitializing keeps the store usable
	require.NoError(t, Init(*cfg, dir))
	assert.True(t, IsInit(dir))
}

func TestIsInitWithoutData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(*TestConfig(), dir))
	require.True(t, exists(dataPath(dir)))

	require.NoError(t, os.RemoveAll(dataPath(dir)))
	assert.False(t, exists(dataPath(dir)))
	assert.False(t, IsInit(dir))
}

func TestInitErrForInvalidPath(t *testing.T) {
	path := "/invalid_path"
	require.Error(t, Init(*TestConfig(), path))
}

func TestIsInitWithBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(configPath(dir))
	require.NoError(t, err)
	defer f.Close()
	//nolint:errcheck
	f.Write([]byte(`
		[P2P]
		  ListenAddresses = [/ip4/0.0.0.0/tcp/2131]
    `))
	assert.False(t, IsInit(dir))
}

func TestIsInitForNonExistDir(t *testing.T) {
	path := "/invalid_path"
	assert.False(t, IsInit(path))
}

func TestInitErrForLockedDir(t *testing.T) {
	dir := t.TempDir()
	flk := flock.New(lockPath(dir))
	_, err := flk.TryLock()
	require.NoError(t, err)
	defer flk.Unlock() //nolint:errcheck

	require.Error(t, Init(*TestConfig(), dir))
}
