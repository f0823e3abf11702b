package relay

import (
	"context"

	libhead "github.com/celestiaorg/go-header"
)

// ChainID identifies the dependent chain whose heads the authority chain tracks.
type ChainID string

func (id ChainID) String() string {
	return string(id)
}

// HeadUpdate is a change of the dependent chain's best head, as observed on the authority chain.
type HeadUpdate struct {
	// RelayHash is the hash of the authority chain block where the head changed.
	RelayHash libhead.Hash `json:"relay_hash"`
	// RelayNumber is the number of the authority chain block where the head changed.
	RelayNumber uint64 `json:"relay_number"`
	// HeadData is the encoded dependent chain header.
	HeadData []byte `json:"head_data"`
}

// Header is the decoded dependent chain header. Only its identity matters for relaying.
type Header interface {
	Hash() libhead.Hash
	Height() uint64
}

// DecodeFn turns head data into a Header. It must be deterministic and free of side effects.
type DecodeFn func([]byte) (Header, error)

// LocalChain marks blocks of the local chain by hash.
// Both methods return false, without error, when the block is not known locally.
// It is used concurrently by both followers and must not require external locking.
//
//go:generate mockgen -destination=mocks/local_chain.go -package=mocks . LocalChain
type LocalChain interface {
	// MarkBest marks the given block as the best block.
	MarkBest(context.Context, libhead.Hash) (bool, error)
	// Finalize finalizes the given block.
	Finalize(context.Context, libhead.Hash) (bool, error)
}

// Subscription is a live, non-restartable sequence of items.
type Subscription[T any] interface {
	// Next blocks until the next item arrives.
	// It returns ErrSubscriptionClosed once the sequence has ended,
	// and any other error if the sequence failed.
	Next(context.Context) (T, error)
	// Cancel stops the subscription.
	Cancel()
}

// Authority provides the dependent chain's heads as tracked by the authority chain.
// Errors it returns are its own and are reported as RemoteError.
type Authority interface {
	// HeadUpdates subscribes to changes of the best head of the given chain.
	HeadUpdates(context.Context, ChainID) (Subscription[*HeadUpdate], error)
	// FinalizedHeads subscribes to head data of finalized heads of the given chain.
	FinalizedHeads(context.Context, ChainID) (Subscription[[]byte], error)
}
