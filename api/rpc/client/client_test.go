package client

import (
	"context"
	"testing"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/filecoin-project/go-jsonrpc/auth"
	"github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/head-relay/api/rpc"
	"github.com/celestiaorg/head-relay/api/rpc/perms"
	"github.com/celestiaorg/head-relay/header"
	"github.com/celestiaorg/head-relay/header/headertest"
	"github.com/celestiaorg/head-relay/nodebuilder/chain"
	"github.com/celestiaorg/head-relay/relay"
	"github.com/celestiaorg/head-relay/relay/relaytest"
	"github.com/celestiaorg/head-relay/store"
)

var _ relay.LocalChain = (*chain.API)(nil)

func setupServer(t *testing.T, authDisabled bool) (string, jwt.Signer) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	signer, err := jwt.NewSignerHS(jwt.HS256, make([]byte, 32))
	require.NoError(t, err)

	srv := rpc.NewServer("127.0.0.1", "0", authDisabled, signer)
	chainStore := store.NewChainStore(ds_sync.MutexWrap(datastore.NewMapDatastore()))
	srv.RegisterAuthedService("chain", chain.NewService(chainStore), &chain.API{})

	require.NoError(t, srv.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, srv.Stop(context.Background()))
	})
	return "http://" + srv.ListenAddr(), signer
}

func newTestClient(t *testing.T, addr string, signer jwt.Signer, allow []auth.Permission) *Client {
	token := ""
	if allow != nil {
		bin, err := perms.NewTokenWithPerms(signer, allow, time.Minute)
		require.NoError(t, err)
		token = string(bin)
	}

	client, err := NewClient(context.Background(), addr, token)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestChainAPI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	addr, signer := setupServer(t, false)
	client := newTestClient(t, addr, signer, perms.ReadWritePerms)

	hs := headertest.NewChain(t, "dependent").NextN(4)
	require.NoError(t, client.Chain.Append(ctx, relaytest.HeadData(t, hs...)))

	known, err := client.Chain.MarkBest(ctx, hs[3].Hash())
	require.NoError(t, err)
	assert.True(t, known)
	known, err = client.Chain.Finalize(ctx, hs[1].Hash())
	require.NoError(t, err)
	assert.True(t, known)
	known, err = client.Chain.Finalize(ctx, headertest.RandHeader(t).Hash())
	require.NoError(t, err)
	assert.False(t, known)

	best, err := client.Chain.Best(ctx)
	require.NoError(t, err)
	assert.True(t, best.Equals(hs[3]))
	finalized, err := client.Chain.Finalized(ctx)
	require.NoError(t, err)
	assert.True(t, finalized.Equals(hs[1]))

	err = client.Chain.Append(ctx, [][]byte{[]byte("not a header")})
	require.Error(t, err)
}

func TestChainAPI_Permissions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	addr, signer := setupServer(t, false)
	h := headertest.NewChain(t, "dependent").Next()

	writer := newTestClient(t, addr, signer, perms.ReadWritePerms)
	require.NoError(t, writer.Chain.Append(ctx, relaytest.HeadData(t, h)))

	reader := newTestClient(t, addr, signer, perms.ReadPerms)
	_, err := reader.Chain.MarkBest(ctx, h.Hash())
	require.Error(t, err)
	_, err = reader.Chain.Finalized(ctx)
	require.Error(t, err) // nothing finalized yet

	public := newTestClient(t, addr, signer, nil)
	_, err = public.Chain.Best(ctx)
	require.Error(t, err)

	unsigned, err := NewClient(ctx, addr, "garbage")
	require.NoError(t, err)
	t.Cleanup(unsigned.Close)
	_, err = unsigned.Chain.Best(ctx)
	require.Error(t, err)
}

func TestChainAPI_AuthDisabled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	addr, signer := setupServer(t, true)
	client := newTestClient(t, addr, signer, nil)

	h := headertest.NewChain(t, "dependent").Next()
	require.NoError(t, client.Chain.Append(ctx, relaytest.HeadData(t, h)))
	known, err := client.Chain.MarkBest(ctx, h.Hash())
	require.NoError(t, err)
	assert.True(t, known)
}

// TestRelayOverRPC drives a remote local chain with the relay.
func TestRelayOverRPC(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	addr, signer := setupServer(t, false)
	client := newTestClient(t, addr, signer, perms.ReadWritePerms)

	hs := headertest.NewChain(t, "dependent").NextN(5)
	require.NoError(t, client.Chain.Append(ctx, relaytest.HeadData(t, hs...)))

	authority := relaytest.NewAuthority()
	authority.Best.Push(relaytest.Updates(t, hs...)...)
	authority.Best.End()
	authority.Finalized.Push(relaytest.HeadData(t, hs[3])...)
	authority.Finalized.End()

	rl, err := relay.NewRelay("dependent", &client.Chain, authority)
	require.NoError(t, err)
	rl.Run(ctx)

	var best, finalized *header.Header
	best, err = client.Chain.Best(ctx)
	require.NoError(t, err)
	finalized, err = client.Chain.Finalized(ctx)
	require.NoError(t, err)
	assert.True(t, finalized.Equals(hs[3]))
	assert.True(t, best.Equals(hs[4]))
}
