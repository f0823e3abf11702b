package p2p

import (
	"context"

	hst "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"

	"github.com/celestiaorg/head-relay/authority"
)

// pubSub constructs the authority PubSub over the node's host.
func pubSub(ctx context.Context, lc fx.Lifecycle, h hst.Host) (*authority.PubSub, error) {
	ps, err := authority.NewPubSub(ctx, h)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{OnStop: ps.Stop})
	return ps, nil
}
