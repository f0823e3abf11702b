package relay_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libhead "github.com/celestiaorg/go-header"

	"github.com/celestiaorg/head-relay/header/headertest"
	"github.com/celestiaorg/head-relay/relay"
	"github.com/celestiaorg/head-relay/relay/mocks"
	"github.com/celestiaorg/head-relay/relay/relaytest"
)

const testChainID = relay.ChainID("dependent")

func newTestRelay(t *testing.T) (*relay.Relay, *mocks.MockLocalChain, *relaytest.Authority) {
	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalChain(ctrl)
	authority := relaytest.NewAuthority()

	rl, err := relay.NewRelay(testChainID, local, authority)
	require.NoError(t, err)
	return rl, local, authority
}

// runRelay runs the relay in the background and returns the channel closed once Run returns.
func runRelay(ctx context.Context, rl *relay.Relay) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		rl.Run(ctx)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not return")
	}
}

func requireRunning(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
		t.Fatal("relay returned unexpectedly")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRelay_MarksBestInOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(3)

	marked := make(chan libhead.Hash, len(hs))
	calls := make([]*gomock.Call, len(hs))
	for i, h := range hs {
		calls[i] = local.EXPECT().MarkBest(gomock.Any(), h.Hash()).
			DoAndReturn(func(_ context.Context, hash libhead.Hash) (bool, error) {
				marked <- hash
				return true, nil
			})
	}
	gomock.InOrder(calls...)

	authority.Best.Push(relaytest.Updates(t, hs...)...)

	runCtx, stop := context.WithCancel(ctx)
	done := runRelay(runCtx, rl)

	for i := range hs {
		select {
		case hash := <-marked:
			assert.Equal(t, hs[i].Hash(), hash)
		case <-ctx.Done():
			t.Fatal(ctx.Err())
		}
	}
	// nothing finalized and no more best heads, but the subscriptions are live
	requireRunning(t, done)
	assert.Equal(t, []relay.ChainID{testChainID, testChainID}, authority.Requests())

	stop()
	waitDone(t, done)
	assert.True(t, authority.Best.Canceled())
	assert.True(t, authority.Finalized.Canceled())
}

func TestRelay_InvalidHeadDataHalts(t *testing.T) {
	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(5)
	const malformed = 3 // index of the malformed update

	updates := relaytest.Updates(t, hs...)
	updates[malformed].HeadData = []byte("not a header")

	var calls []*gomock.Call
	for _, h := range hs[:malformed] {
		calls = append(calls, local.EXPECT().MarkBest(gomock.Any(), h.Hash()).Return(true, nil))
	}
	gomock.InOrder(calls...)

	authority.Best.Push(updates...)
	authority.Finalized.Push(relaytest.HeadData(t, hs[0])...)
	local.EXPECT().Finalize(gomock.Any(), hs[0].Hash()).Return(true, nil).MaxTimes(1)

	waitDone(t, runRelay(context.Background(), rl))

	// the update after the malformed one is never consumed
	assert.Equal(t, len(hs)-malformed-1, authority.Best.Queued())
	assert.True(t, authority.Best.Canceled())
	assert.True(t, authority.Finalized.Canceled())
}

func TestRelay_UnknownBlocksDoNotHalt(t *testing.T) {
	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(6)

	var best, finalized []*gomock.Call
	for _, h := range hs {
		best = append(best, local.EXPECT().MarkBest(gomock.Any(), h.Hash()).Return(false, nil))
		finalized = append(finalized, local.EXPECT().Finalize(gomock.Any(), h.Hash()).Return(false, nil))
	}
	gomock.InOrder(best...)
	gomock.InOrder(finalized...)

	authority.Best.Push(relaytest.Updates(t, hs...)...)
	authority.Best.End()
	authority.Finalized.Push(relaytest.HeadData(t, hs...)...)
	authority.Finalized.End()

	// both sequences end naturally after every head was relayed
	waitDone(t, runRelay(context.Background(), rl))
	assert.Equal(t, len(hs)+1, authority.Best.Consumed())
	assert.Equal(t, len(hs)+1, authority.Finalized.Consumed())
}

func TestRelay_OneSequenceEndingKeepsTheOther(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(2)

	local.EXPECT().MarkBest(gomock.Any(), hs[0].Hash()).Return(true, nil)
	finalized := make(chan struct{})
	local.EXPECT().Finalize(gomock.Any(), hs[0].Hash()).
		DoAndReturn(func(context.Context, libhead.Hash) (bool, error) {
			close(finalized)
			return true, nil
		})

	authority.Best.Push(relaytest.Update(t, hs[0], 1))
	authority.Best.End()

	done := runRelay(ctx, rl)
	requireRunning(t, done)

	// finalized heads are still followed after best head updates ended
	authority.Finalized.Push(relaytest.HeadData(t, hs[0])...)
	select {
	case <-finalized:
	case <-ctx.Done():
		t.Fatal(ctx.Err())
	}
	requireRunning(t, done)

	authority.Finalized.End()
	waitDone(t, done)
}

func TestRelay_FinalizedFaultStopsBest(t *testing.T) {
	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(3)

	local.EXPECT().Finalize(gomock.Any(), hs[0].Hash()).Return(true, nil)
	authority.Finalized.Push(relaytest.HeadData(t, hs[0])...)
	authority.Finalized.Push([]byte{0xde, 0xad, 0xbe, 0xef})
	authority.Finalized.Push(relaytest.HeadData(t, hs[1])...)

	// best head stream stays idle, no MarkBest is expected
	waitDone(t, runRelay(context.Background(), rl))

	assert.Equal(t, 1, authority.Finalized.Queued())
	assert.True(t, authority.Best.Canceled())

	authority.Best.Push(relaytest.Updates(t, hs...)...)
	assert.Equal(t, 0, authority.Best.Consumed())
}

func TestRelay_LocalErrorHalts(t *testing.T) {
	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(3)

	gomock.InOrder(
		local.EXPECT().MarkBest(gomock.Any(), hs[0].Hash()).Return(true, nil),
		local.EXPECT().MarkBest(gomock.Any(), hs[1].Hash()).Return(false, errors.New("disk on fire")),
	)
	// the finalized follower may get to the first finalized head, but it is held
	// until the best head follower has halted
	local.EXPECT().Finalize(gomock.Any(), hs[0].Hash()).
		DoAndReturn(func(ctx context.Context, _ libhead.Hash) (bool, error) {
			<-ctx.Done()
			return true, nil
		}).MaxTimes(1)

	authority.Best.Push(relaytest.Updates(t, hs...)...)
	authority.Finalized.Push(relaytest.HeadData(t, hs...)...)

	waitDone(t, runRelay(context.Background(), rl))

	assert.Equal(t, 1, authority.Best.Queued())
	assert.GreaterOrEqual(t, authority.Finalized.Queued(), len(hs)-1)
}

func TestRelay_RemoteErrorHalts(t *testing.T) {
	rl, local, authority := newTestRelay(t)
	hs := headertest.NewChain(t, testChainID.String()).NextN(2)

	local.EXPECT().MarkBest(gomock.Any(), hs[0].Hash()).Return(true, nil)
	authority.Best.Push(relaytest.Update(t, hs[0], 1))
	authority.Best.Fail(errors.New("connection reset"))
	authority.Best.Push(relaytest.Update(t, hs[1], 2))

	waitDone(t, runRelay(context.Background(), rl))
	assert.Equal(t, 1, authority.Best.Queued())
	assert.True(t, authority.Finalized.Canceled())
}

func TestRelay_SubscribeErrorHalts(t *testing.T) {
	rl, _, authority := newTestRelay(t)
	authority.FinalizedHeadsErr = errors.New("no such chain")

	waitDone(t, runRelay(context.Background(), rl))
	// the best head subscription was opened first and is released again
	assert.True(t, authority.Best.Canceled())
}

func TestRelay_StartStop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	rl, local, authority := newTestRelay(t)
	h := headertest.NewChain(t, testChainID.String()).Next()

	marked := make(chan struct{})
	local.EXPECT().MarkBest(gomock.Any(), h.Hash()).
		DoAndReturn(func(context.Context, libhead.Hash) (bool, error) {
			close(marked)
			return true, nil
		})

	require.NoError(t, rl.Start(ctx))
	require.Error(t, rl.Start(ctx))

	authority.Best.Push(relaytest.Update(t, h, 1))
	select {
	case <-marked:
	case <-ctx.Done():
		t.Fatal(ctx.Err())
	}

	done := rl.Done()
	require.NoError(t, rl.Stop(ctx))
	waitDone(t, done)
	assert.True(t, authority.Best.Canceled())
	assert.True(t, authority.Finalized.Canceled())

	// stopping twice is a no-op
	require.NoError(t, rl.Stop(ctx))
}

func TestRelay_StartAfterStop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	rl, _, _ := newTestRelay(t)
	require.NoError(t, rl.Start(ctx))
	require.NoError(t, rl.Stop(ctx))

	// metrics are released on Stop, so the relay can't be started again
	require.Error(t, rl.Start(ctx))
	require.NoError(t, rl.Stop(ctx))
}

func TestRelay_CustomDecoder(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalChain(ctrl)
	authority := relaytest.NewAuthority()

	decode := func(data []byte) (relay.Header, error) {
		if len(data) == 0 {
			return nil, errors.New("empty")
		}
		return fixedHeader(data), nil
	}
	rl, err := relay.NewRelay(testChainID, local, authority, relay.WithDecoder(decode))
	require.NoError(t, err)

	local.EXPECT().Finalize(gomock.Any(), libhead.Hash("abc")).Return(true, nil)
	authority.Finalized.Push([]byte("abc"), nil)

	waitDone(t, runRelay(context.Background(), rl))
}

type fixedHeader []byte

func (h fixedHeader) Hash() libhead.Hash {
	return libhead.Hash(h)
}

func (h fixedHeader) Height() uint64 {
	return uint64(len(h))
}
