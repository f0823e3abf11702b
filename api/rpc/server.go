package rpc

import (
	"context"
	"net"
	"net/http"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/filecoin-project/go-jsonrpc"
	"github.com/filecoin-project/go-jsonrpc/auth"
	logging "github.com/ipfs/go-log/v2"

	"github.com/celestiaorg/head-relay/api/rpc/perms"
	"github.com/celestiaorg/head-relay/libs/authtoken"
)

var log = logging.Logger("rpc")

type Server struct {
	srv      *http.Server
	rpc      *jsonrpc.RPCServer
	listener net.Listener

	// defaultPerms are granted to requests without a token
	defaultPerms []auth.Permission

	started atomic.Bool
}

// NewServer creates a new Server listening on the given address and port.
// Requests are granted the permissions of the JWT they carry, as verified by the given verifier.
// With authDisabled every request is granted all permissions.
func NewServer(address, port string, authDisabled bool, verifier jwt.Verifier) *Server {
	rpc := jsonrpc.NewServer()
	srv := &Server{
		rpc:          rpc,
		defaultPerms: perms.DefaultPerms,
	}
	if authDisabled {
		log.Warn("RPC authentication is disabled")
		srv.defaultPerms = perms.ReadWritePerms
	}

	authHandler := &auth.Handler{
		Verify: func(_ context.Context, token string) ([]auth.Permission, error) {
			return authtoken.ExtractSignedPermissions(verifier, token)
		},
		Next: rpc.ServeHTTP,
	}
	srv.srv = &http.Server{
		Addr:    net.JoinHostPort(address, port),
		Handler: authHandler,
		// the amount of time allowed to read request headers. set to the default 2 seconds
		ReadHeaderTimeout: 2 * time.Second,
	}
	return srv
}

// RegisterService registers a service onto the RPC server. All methods on the service will then be
// exposed over the RPC.
func (s *Server) RegisterService(namespace string, service interface{}) {
	s.rpc.Register(namespace, service)
}

// RegisterAuthedService registers a service onto the RPC server. All methods on the service will
// then be exposed over the RPC, guarded by the permissions tagged on 'out'.
func (s *Server) RegisterAuthedService(namespace string, service interface{}, out interface{}) {
	auth.PermissionedProxy(perms.ReadWritePerms, s.defaultPerms, service, getInternalStruct(out))
	s.RegisterService(namespace, out)
}

func getInternalStruct(api interface{}) interface{} {
	return reflect.ValueOf(api).Elem().FieldByName("Internal").Addr().Interface()
}

// Start starts the RPC Server.
func (s *Server) Start(context.Context) error {
	couldStart := s.started.CompareAndSwap(false, true)
	if !couldStart {
		log.Warn("cannot start server: already started")
		return nil
	}
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		s.started.Store(false)
		return err
	}
	s.listener = listener
	log.Infow("server started", "listening on", listener.Addr().String())
	//nolint:errcheck
	go s.srv.Serve(listener)
	return nil
}

// Stop stops the RPC Server.
func (s *Server) Stop(ctx context.Context) error {
	couldStop := s.started.CompareAndSwap(true, false)
	if !couldStop {
		log.Warn("cannot stop server: already stopped")
		return nil
	}
	err := s.srv.Shutdown(ctx)
	if err != nil {
		return err
	}
	s.listener = nil
	log.Info("server stopped")
	return nil
}

// ListenAddr returns the listen address of the server.
func (s *Server) ListenAddr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
