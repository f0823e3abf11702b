package chain

import (
	"context"

	libhead "github.com/celestiaorg/go-header"

	"github.com/celestiaorg/head-relay/header"
)

var _ Module = (*API)(nil)

// Module defines the API related to interacting with the local chain of the dependent chain.
type Module interface {
	// Append imports the given encoded headers into the local chain.
	Append(ctx context.Context, raw [][]byte) error
	// Best returns the best header of the local chain.
	Best(ctx context.Context) (*header.Header, error)
	// Finalized returns the finalized header of the local chain.
	Finalized(ctx context.Context) (*header.Header, error)
	// MarkBest marks the header with the given hash as the best one.
	// It reports false if the header is not known.
	MarkBest(ctx context.Context, hash libhead.Hash) (bool, error)
	// Finalize finalizes the header with the given hash.
	// It reports false if the header is not known.
	Finalize(ctx context.Context, hash libhead.Hash) (bool, error)
}

// API is a wrapper around Module for the RPC.
type API struct {
	Internal struct {
		Append    func(context.Context, [][]byte) error             `perm:"write"`
		Best      func(context.Context) (*header.Header, error)     `perm:"read"`
		Finalized func(context.Context) (*header.Header, error)     `perm:"read"`
		MarkBest  func(context.Context, libhead.Hash) (bool, error) `perm:"write"`
		Finalize  func(context.Context, libhead.Hash) (bool, error) `perm:"write"`
	}
}

func (api *API) Append(ctx context.Context, raw [][]byte) error {
	return api.Internal.Append(ctx, raw)
}

func (api *API) Best(ctx context.Context) (*header.Header, error) {
	return api.Internal.Best(ctx)
}

func (api *API) Finalized(ctx context.Context) (*header.Header, error) {
	return api.Internal.Finalized(ctx)
}

func (api *API) MarkBest(ctx context.Context, hash libhead.Hash) (bool, error) {
	return api.Internal.MarkBest(ctx, hash)
}

func (api *API) Finalize(ctx context.Context, hash libhead.Hash) (bool, error) {
	return api.Internal.Finalize(ctx, hash)
}
