package rpc

import (
	"github.com/cristalhq/jwt/v5"

	"github.com/celestiaorg/head-relay/api/rpc"
	"github.com/celestiaorg/head-relay/nodebuilder/chain"
)

// registerEndpoints registers the given services on the rpc.
func registerEndpoints(chainMod chain.Module, serv *rpc.Server) {
	serv.RegisterAuthedService("chain", chainMod, &chain.API{})
}

func server(cfg *Config, verifier jwt.Verifier) *rpc.Server {
	return rpc.NewServer(cfg.Address, cfg.Port, cfg.SkipAuth, verifier)
}
