package authority

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/head-relay/header/headertest"
	"github.com/celestiaorg/head-relay/relay"
	"github.com/celestiaorg/head-relay/relay/relaytest"
	"github.com/celestiaorg/head-relay/store"
)

const testChainID = relay.ChainID("dependent")

func newTestPubSubs(ctx context.Context, t *testing.T) (*PubSub, *PubSub) {
	net, err := mocknet.FullMeshConnected(2)
	require.NoError(t, err)

	pSub1, err := NewPubSub(ctx, net.Hosts()[0])
	require.NoError(t, err)
	pSub2, err := NewPubSub(ctx, net.Hosts()[1])
	require.NoError(t, err)
	return pSub1, pSub2
}

func TestPubSub_HeadUpdates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)
	pSub1, pSub2 := newTestPubSubs(ctx, t)

	subs, err := pSub2.HeadUpdates(ctx, testChainID)
	require.NoError(t, err)

	hs := headertest.NewChain(t, testChainID.String()).NextN(3)
	for i, upd := range relaytest.Updates(t, hs...) {
		err = pSub1.PublishHeadUpdate(ctx, testChainID, upd, pubsub.WithReadiness(pubsub.MinTopicSize(1)))
		require.NoError(t, err)

		got, err := subs.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, upd.HeadData, got.HeadData)
		assert.Equal(t, upd.RelayHash, got.RelayHash)
		assert.EqualValues(t, i+1, got.RelayNumber)
	}

	// other chains are not delivered
	err = pSub1.PublishHeadUpdate(ctx, "other", relaytest.Update(t, hs[0], 1))
	require.NoError(t, err)
	reqCtx, reqCancel := context.WithTimeout(ctx, time.Millisecond*100)
	defer reqCancel()
	_, err = subs.Next(reqCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	subs.Cancel()
	_, err = subs.Next(ctx)
	require.ErrorIs(t, err, relay.ErrSubscriptionClosed)
}

func TestPubSub_FinalizedHeads(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)
	pSub1, pSub2 := newTestPubSubs(ctx, t)

	subs, err := pSub2.FinalizedHeads(ctx, testChainID)
	require.NoError(t, err)

	data := []byte("opaque head data")
	err = pSub1.PublishFinalized(ctx, testChainID, data, pubsub.WithReadiness(pubsub.MinTopicSize(1)))
	require.NoError(t, err)

	got, err := subs.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	subs.Cancel()
	require.NoError(t, pSub1.Stop(ctx))
	require.NoError(t, pSub2.Stop(ctx))
}

func TestPubSub_RejectsMalformedUpdates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)
	pSub1, pSub2 := newTestPubSubs(ctx, t)

	subs, err := pSub2.HeadUpdates(ctx, testChainID)
	require.NoError(t, err)
	t.Cleanup(subs.Cancel)

	topic, err := pSub1.join(bestTopic(testChainID))
	require.NoError(t, err)
	// rejected by the local validator before reaching the network
	err = topic.Publish(ctx, []byte("{not json"), pubsub.WithReadiness(pubsub.MinTopicSize(1)))
	require.Error(t, err)

	reqCtx, reqCancel := context.WithTimeout(ctx, time.Millisecond*100)
	defer reqCancel()
	_, err = subs.Next(reqCtx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUnmarshalHeadUpdate(t *testing.T) {
	_, err := unmarshalHeadUpdate([]byte("garbage"))
	require.Error(t, err)

	_, err = unmarshalHeadUpdate([]byte(`{"relay_number":1}`))
	require.ErrorIs(t, err, errMissingHeadData)

	h := headertest.RandHeader(t)
	bin, err := json.Marshal(relaytest.Update(t, h, 7))
	require.NoError(t, err)
	upd, err := unmarshalHeadUpdate(bin)
	require.NoError(t, err)
	assert.EqualValues(t, 7, upd.RelayNumber)
	assert.Equal(t, headertest.Encode(t, h), upd.HeadData)
}

// TestPubSub_RelayToStore follows heads published on the network into a ChainStore.
func TestPubSub_RelayToStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)
	pSub1, pSub2 := newTestPubSubs(ctx, t)

	hs := headertest.NewChain(t, testChainID.String()).NextN(5)
	chain := store.NewChainStore(ds_sync.MutexWrap(datastore.NewMapDatastore()))
	require.NoError(t, chain.Append(ctx, hs...))

	rl, err := relay.NewRelay(testChainID, chain, pSub2)
	require.NoError(t, err)
	require.NoError(t, rl.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, rl.Stop(context.Background()))
	})

	ready := pubsub.WithReadiness(pubsub.MinTopicSize(1))
	for _, upd := range relaytest.Updates(t, hs...) {
		require.NoError(t, pSub1.PublishHeadUpdate(ctx, testChainID, upd, ready))
	}
	require.NoError(t, pSub1.PublishFinalized(ctx, testChainID, headertest.Encode(t, hs[2]), ready))

	require.Eventually(t, func() bool {
		best, err := chain.Best(ctx)
		if err != nil {
			return false
		}
		finalized, err := chain.Finalized(ctx)
		if err != nil {
			return false
		}
		return best.Equals(hs[4]) && finalized.Equals(hs[2])
	}, 5*time.Second, 10*time.Millisecond)
}
