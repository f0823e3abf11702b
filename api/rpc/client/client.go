package client

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/celestiaorg/head-relay/api/rpc/perms"
	"github.com/celestiaorg/head-relay/nodebuilder/chain"
)

type API interface {
	chain.Module
}

type Client struct {
	Chain chain.API

	closer multiClientCloser
}

// multiClientCloser is a wrapper struct to close clients across multiple namespaces.
type multiClientCloser struct {
	closers []jsonrpc.ClientCloser
}

// register adds a new closer to the multiClientCloser
func (m *multiClientCloser) register(closer jsonrpc.ClientCloser) {
	m.closers = append(m.closers, closer)
}

// closeAll closes all saved clients.
func (m *multiClientCloser) closeAll() {
	for _, closer := range m.closers {
		closer()
	}
}

// Close closes the connections to all namespaces registered on the client.
func (c *Client) Close() {
	c.closer.closeAll()
}

// NewClient creates a new Client with one connection per namespace with the
// given token used for authentication.
func NewClient(ctx context.Context, addr, token string) (*Client, error) {
	authHeader := http.Header{}
	if token != "" {
		authHeader.Set(perms.AuthKey, "Bearer "+token)
	}
	return newClient(ctx, addr, authHeader)
}

func newClient(ctx context.Context, addr string, authHeader http.Header) (*Client, error) {
	var client Client
	for name, module := range moduleMap(&client) {
		closer, err := jsonrpc.NewClient(ctx, addr, name, module, authHeader)
		if err != nil {
			client.closer.closeAll()
			return nil, err
		}
		client.closer.register(closer)
	}

	return &client, nil
}

func moduleMap(client *Client) map[string]interface{} {
	return map[string]interface{}{
		"chain": &client.Chain.Internal,
	}
}
