package p2p

import (
	"context"
	"errors"
	"sync"

	"github.com/ipfs/go-datastore"
	hst "github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"

	"github.com/celestiaorg/head-relay/libs/pidstore"
)

// Bootstrapper connects the host to the configured bootstrap peers and,
// if enabled, to the peers it was connected to before the last stop.
type Bootstrapper struct {
	host     hst.Host
	peers    []peer.AddrInfo
	pidstore *pidstore.PeerIDStore
}

func newBootstrapper(cfg Config, h hst.Host, ds datastore.Batching) (*Bootstrapper, error) {
	peers, err := cfg.bootstrappers()
	if err != nil {
		return nil, err
	}

	b := &Bootstrapper{host: h, peers: peers}
	if cfg.PersistPeers {
		b.pidstore = pidstore.NewPeerIDStore(ds)
	}
	return b, nil
}

// Start dials every known peer. It fails only if there were peers to dial and none of them succeeded.
func (b *Bootstrapper) Start(ctx context.Context) error {
	peers := b.peers
	if b.pidstore != nil {
		stored, err := b.pidstore.Load(ctx)
		if err != nil {
			return err
		}
		peers = append(peers, stored...)
	}
	if len(peers) == 0 {
		log.Warn("no peers to bootstrap from, waiting for inbound connections")
		return nil
	}

	var (
		wg        sync.WaitGroup
		errsLk    sync.Mutex
		errs      []error
		connected int
	)
	for _, p := range peers {
		if p.ID == b.host.ID() {
			continue
		}
		wg.Add(1)
		go func(p peer.AddrInfo) {
			defer wg.Done()
			b.host.Peerstore().AddAddrs(p.ID, p.Addrs, peerstore.PermanentAddrTTL)
			err := b.host.Connect(ctx, p)

			errsLk.Lock()
			defer errsLk.Unlock()
			if err != nil {
				log.Debugw("connecting to peer", "peer", p.ID, "err", err)
				errs = append(errs, err)
				return
			}
			connected++
		}(p)
	}
	wg.Wait()

	log.Infow("bootstrapped", "connected", connected, "failed", len(errs))
	if connected == 0 && len(errs) != 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Stop persists the currently connected peers.
func (b *Bootstrapper) Stop(ctx context.Context) error {
	if b.pidstore == nil {
		return nil
	}

	conns := b.host.Network().Peers()
	peers := make([]peer.AddrInfo, 0, len(conns))
	for _, id := range conns {
		peers = append(peers, b.host.Peerstore().PeerInfo(id))
	}
	return b.pidstore.Put(ctx, peers)
}
