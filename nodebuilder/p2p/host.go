package p2p

import (
	"context"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	hst "github.com/libp2p/go-libp2p/core/host"
	"go.uber.org/fx"
)

const userAgent = "head-relay"

// host constructs a new libp2p Host listening on the configured addresses.
func host(lc fx.Lifecycle, cfg Config, key crypto.PrivKey) (hst.Host, error) {
	h, err := libp2p.New(
		libp2p.Identity(key),
		libp2p.ListenAddrStrings(cfg.ListenAddresses...),
		libp2p.UserAgent(userAgent),
		libp2p.DisableRelay(),
	)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		return h.Close()
	}})
	return h, nil
}
