package relay

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"

	"github.com/celestiaorg/head-relay/api/rpc/client"
	"github.com/celestiaorg/head-relay/libs/fxutil"
	"github.com/celestiaorg/head-relay/relay"
	"github.com/celestiaorg/head-relay/store"
)

var log = logging.Logger("module/relay")

// OptionsGroup is the fx group collecting relay.Options for the node's Relay.
const OptionsGroup = `group:"relay-options"`

type relayParams struct {
	fx.In

	Cfg       Config
	Local     relay.LocalChain
	Authority relay.Authority
	Opts      []relay.Option `group:"relay-options"`
}

func ConstructModule(cfg *Config) fx.Option {
	// sanitize config values before constructing module
	cfgErr := cfg.Validate()
	remote := cfg.RemoteChain != ""

	return fx.Module(
		"relay",
		fx.Supply(*cfg),
		fx.Error(cfgErr),
		fxutil.ProvideIf(!remote, func(s *store.ChainStore) relay.LocalChain {
			return s
		}),
		fxutil.ProvideIf(remote, remoteChain),
		fx.Provide(fx.Annotate(
			newRelay,
			fx.OnStart(func(ctx context.Context, r *relay.Relay) error {
				return r.Start(ctx)
			}),
			fx.OnStop(func(ctx context.Context, r *relay.Relay) error {
				return r.Stop(ctx)
			}),
		)),
	)
}

func newRelay(p relayParams) (*relay.Relay, error) {
	return relay.NewRelay(relay.ChainID(p.Cfg.ChainID), p.Local, p.Authority, p.Opts...)
}

// remoteChain connects to the local chain held by another node.
func remoteChain(ctx context.Context, lc fx.Lifecycle, cfg Config) (relay.LocalChain, error) {
	cl, err := client.NewClient(ctx, cfg.RemoteChain, cfg.RemoteToken)
	if err != nil {
		return nil, err
	}
	log.Infow("relaying into remote chain", "url", cfg.RemoteChain)

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		cl.Close()
		return nil
	}})
	return &cl.Chain, nil
}
