package p2p

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"

	"github.com/celestiaorg/head-relay/authority"
	"github.com/celestiaorg/head-relay/relay"
)

var log = logging.Logger("module/p2p")

// ConstructModule collects all the components and services related to p2p.
func ConstructModule(cfg *Config) fx.Option {
	// sanitize config values before constructing module
	cfgErr := cfg.Validate()

	return fx.Module(
		"p2p",
		fx.Supply(*cfg),
		fx.Error(cfgErr),
		fx.Provide(Key),
		fx.Provide(host),
		fx.Provide(pubSub),
		fx.Provide(func(ps *authority.PubSub) relay.Authority {
			return ps
		}),
		fx.Provide(fx.Annotate(
			newBootstrapper,
			fx.OnStart(func(ctx context.Context, b *Bootstrapper) error {
				return b.Start(ctx)
			}),
			fx.OnStop(func(ctx context.Context, b *Bootstrapper) error {
				return b.Stop(ctx)
			}),
		)),
		fx.Invoke(func(*Bootstrapper) {}),
	)
}
