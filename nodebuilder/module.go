package nodebuilder

import (
	"context"

	"go.uber.org/fx"

	"github.com/celestiaorg/head-relay/libs/fxutil"
	"github.com/celestiaorg/head-relay/nodebuilder/chain"
	"github.com/celestiaorg/head-relay/nodebuilder/p2p"
	"github.com/celestiaorg/head-relay/nodebuilder/relay"
	"github.com/celestiaorg/head-relay/nodebuilder/rpc"
)

// ConstructModule collects all the components and services of a head relay node
// over the given Config and Store.
func ConstructModule(cfg *Config, store Store) fx.Option {
	baseComponents := fx.Options(
		fx.Provide(store.Keystore),
		fx.Provide(func(lc fx.Lifecycle) context.Context {
			return fxutil.WithLifecycle(context.Background(), lc)
		}),
		fx.Supply(cfg),
		fx.Provide(store.Datastore),
		fx.Provide(secret),
		// modules provided by the node
		p2p.ConstructModule(&cfg.P2P),
		chain.ConstructModule(),
		relay.ConstructModule(&cfg.Relay),
		rpc.ConstructModule(&cfg.RPC),
	)

	return fx.Module(
		"node",
		baseComponents,
	)
}
