package relaytest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cometbft/cometbft/crypto/tmhash"

	"github.com/celestiaorg/head-relay/header"
	"github.com/celestiaorg/head-relay/header/headertest"
	"github.com/celestiaorg/head-relay/relay"
)

const feedCapacity = 1024

type event[T any] struct {
	item T
	err  error
}

// Feed is an in-memory relay.Subscription fed by tests.
// Items, failures and the end of the sequence are delivered in the order they were pushed.
type Feed[T any] struct {
	events chan event[T]

	nexts      atomic.Int64
	cancelOnce sync.Once
	canceled   chan struct{}
}

// NewFeed creates a new empty Feed.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{
		events:   make(chan event[T], feedCapacity),
		canceled: make(chan struct{}),
	}
}

// Push queues the given items.
func (f *Feed[T]) Push(items ...T) {
	for _, item := range items {
		f.events <- event[T]{item: item}
	}
}

// Fail queues a failure of the sequence.
func (f *Feed[T]) Fail(err error) {
	f.events <- event[T]{err: err}
}

// End queues the natural end of the sequence.
func (f *Feed[T]) End() {
	f.events <- event[T]{err: relay.ErrSubscriptionClosed}
}

// Next implements relay.Subscription.
func (f *Feed[T]) Next(ctx context.Context) (T, error) {
	var zero T
	// cancellation wins over queued events
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if f.Canceled() {
		return zero, relay.ErrSubscriptionClosed
	}

	select {
	case ev := <-f.events:
		f.nexts.Add(1)
		return ev.item, ev.err
	case <-f.canceled:
		return zero, relay.ErrSubscriptionClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Cancel implements relay.Subscription.
func (f *Feed[T]) Cancel() {
	f.cancelOnce.Do(func() {
		close(f.canceled)
	})
}

// Canceled reports whether the Feed was canceled.
func (f *Feed[T]) Canceled() bool {
	select {
	case <-f.canceled:
		return true
	default:
		return false
	}
}

// Queued returns the number of pushed events nobody has consumed yet.
func (f *Feed[T]) Queued() int {
	return len(f.events)
}

// Consumed returns the number of events consumed through Next.
func (f *Feed[T]) Consumed() int {
	return int(f.nexts.Load())
}

// Authority is an in-memory relay.Authority serving a single dependent chain.
type Authority struct {
	Best      *Feed[*relay.HeadUpdate]
	Finalized *Feed[[]byte]

	// HeadUpdatesErr and FinalizedHeadsErr, if set, fail the respective subscription attempts.
	HeadUpdatesErr    error
	FinalizedHeadsErr error

	mu       sync.Mutex
	requests []relay.ChainID
}

// NewAuthority creates a new Authority with empty feeds.
func NewAuthority() *Authority {
	return &Authority{
		Best:      NewFeed[*relay.HeadUpdate](),
		Finalized: NewFeed[[]byte](),
	}
}

func (a *Authority) HeadUpdates(_ context.Context, id relay.ChainID) (relay.Subscription[*relay.HeadUpdate], error) {
	a.record(id)
	if a.HeadUpdatesErr != nil {
		return nil, a.HeadUpdatesErr
	}
	return a.Best, nil
}

func (a *Authority) FinalizedHeads(_ context.Context, id relay.ChainID) (relay.Subscription[[]byte], error) {
	a.record(id)
	if a.FinalizedHeadsErr != nil {
		return nil, a.FinalizedHeadsErr
	}
	return a.Finalized, nil
}

// Requests returns the chain IDs subscriptions were requested for.
func (a *Authority) Requests() []relay.ChainID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]relay.ChainID(nil), a.requests...)
}

func (a *Authority) record(id relay.ChainID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, id)
}

// Update builds a HeadUpdate for the given Header observed at the given authority block number.
func Update(t *testing.T, h *header.Header, relayNumber uint64) *relay.HeadUpdate {
	return &relay.HeadUpdate{
		RelayHash:   tmhash.Sum(h.Hash()),
		RelayNumber: relayNumber,
		HeadData:    headertest.Encode(t, h),
	}
}

// Updates builds HeadUpdates for the given Headers at consecutive authority block numbers.
func Updates(t *testing.T, hs ...*header.Header) []*relay.HeadUpdate {
	us := make([]*relay.HeadUpdate, len(hs))
	for i, h := range hs {
		us[i] = Update(t, h, uint64(i+1)) //nolint:gosec
	}
	return us
}

// HeadData encodes the given Headers.
func HeadData(t *testing.T, hs ...*header.Header) [][]byte {
	data := make([][]byte, len(hs))
	for i, h := range hs {
		data[i] = headertest.Encode(t, h)
	}
	return data
}
