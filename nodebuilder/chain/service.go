package chain

import (
	"context"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	libhead "github.com/celestiaorg/go-header"

	"github.com/celestiaorg/head-relay/header"
	"github.com/celestiaorg/head-relay/libs/utils"
	"github.com/celestiaorg/head-relay/store"
)

var (
	log    = logging.Logger("module/chain")
	tracer = otel.Tracer("module/chain")
)

// Service exposes the local ChainStore of the dependent chain.
type Service struct {
	store *store.ChainStore
}

// NewService creates a new Service over the given ChainStore.
func NewService(store *store.ChainStore) *Service {
	return &Service{store: store}
}

func (s *Service) Append(ctx context.Context, raw [][]byte) (err error) {
	ctx, span := tracer.Start(ctx, "chain/append", trace.WithAttributes(
		attribute.Int("amount", len(raw)),
	))
	defer func() {
		utils.EndSpan(span, err)
	}()

	hs := make([]*header.Header, len(raw))
	for i, data := range raw {
		hs[i], err = header.Decode(data)
		if err != nil {
			return fmt.Errorf("chain: header %d of %d: %w", i, len(raw), err)
		}
	}
	return s.store.Append(ctx, hs...)
}

func (s *Service) Best(ctx context.Context) (*header.Header, error) {
	return s.store.Best(ctx)
}

func (s *Service) Finalized(ctx context.Context) (*header.Header, error) {
	return s.store.Finalized(ctx)
}

func (s *Service) MarkBest(ctx context.Context, hash libhead.Hash) (known bool, err error) {
	ctx, span := tracer.Start(ctx, "chain/mark-best")
	defer func() {
		utils.EndSpan(span, err, attribute.Bool("known", known))
		if err != nil {
			log.Errorw("marking best head", "hash", hash, "err", err)
		}
	}()

	return s.store.MarkBest(ctx, hash)
}

func (s *Service) Finalize(ctx context.Context, hash libhead.Hash) (known bool, err error) {
	ctx, span := tracer.Start(ctx, "chain/finalize")
	defer func() {
		utils.EndSpan(span, err, attribute.Bool("known", known))
		if err != nil {
			log.Errorw("finalizing head", "hash", hash, "err", err)
		}
	}()

	return s.store.Finalize(ctx, hash)
}
