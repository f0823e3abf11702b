package chain

import (
	"github.com/ipfs/go-datastore"
	"go.uber.org/fx"

	"github.com/celestiaorg/head-relay/store"
)

func ConstructModule() fx.Option {
	return fx.Module(
		"chain",
		fx.Provide(func(ds datastore.Batching) *store.ChainStore {
			return store.NewChainStore(ds)
		}),
		fx.Provide(func(s *store.ChainStore) Module {
			return NewService(s)
		}),
	)
}
