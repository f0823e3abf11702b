package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"

	libhead "github.com/celestiaorg/go-header"

	"github.com/celestiaorg/head-relay/header"
)

var (
	storePrefix   = datastore.NewKey("chain")
	headersPrefix = datastore.NewKey("headers")
	bestKey       = datastore.NewKey("best")
	finalizedKey  = datastore.NewKey("finalized")

	log = logging.Logger("store")
)

// DefaultCacheSize defines the amount of max entries allowed in the ChainStore header cache.
const DefaultCacheSize = 4096

// ErrNotFound is returned when the requested header is not in the store.
var ErrNotFound = errors.New("store: header not found")

// ChainStore is a local chain index of dependent chain headers with best and
// finalized pointers. It is backed by the given datastore and is safe for
// concurrent use.
//
// The finalized pointer never moves back, and the best pointer never goes
// below the finalized one.
type ChainStore struct {
	ds datastore.Batching
	// cache of decoded headers by hash
	cache *lru.Cache[string, *header.Header]

	// pointerLk serializes updates of the best and finalized pointers
	pointerLk sync.Mutex
}

// NewChainStore creates a new ChainStore backed by the given datastore.
func NewChainStore(ds datastore.Batching) *ChainStore {
	cache, err := lru.New[string, *header.Header](DefaultCacheSize)
	if err != nil {
		panic(err) // only fails on non-positive size
	}
	return &ChainStore{
		ds:    namespace.Wrap(ds, storePrefix),
		cache: cache,
	}
}

// Append imports the given headers. Headers already in the store are overwritten.
func (s *ChainStore) Append(ctx context.Context, hs ...*header.Header) error {
	if len(hs) == 0 {
		return nil
	}

	batch, err := s.ds.Batch(ctx)
	if err != nil {
		return fmt.Errorf("store: creating batch: %w", err)
	}

	for _, h := range hs {
		bin, err := h.MarshalBinary()
		if err != nil {
			return fmt.Errorf("store: marshalling header %d: %w", h.Height(), err)
		}
		if err = batch.Put(ctx, headerKey(h.Hash()), bin); err != nil {
			return fmt.Errorf("store: writing header %d: %w", h.Height(), err)
		}
	}

	if err = batch.Commit(ctx); err != nil {
		return fmt.Errorf("store: committing headers: %w", err)
	}
	for _, h := range hs {
		s.cache.Add(h.Hash().String(), h)
	}

	log.Debugw("appended headers", "amount", len(hs), "last", hs[len(hs)-1].Height())
	return nil
}

// Get returns the header with the given hash.
func (s *ChainStore) Get(ctx context.Context, hash libhead.Hash) (*header.Header, error) {
	if h, ok := s.cache.Get(hash.String()); ok {
		return h, nil
	}

	bin, err := s.ds.Get(ctx, headerKey(hash))
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading header %s: %w", hash, err)
	}

	h, err := header.UnmarshalHeader(bin)
	if err != nil {
		return nil, fmt.Errorf("store: corrupted header %s: %w", hash, err)
	}
	s.cache.Add(hash.String(), h)
	return h, nil
}

// Has reports whether the header with the given hash is in the store.
func (s *ChainStore) Has(ctx context.Context, hash libhead.Hash) (bool, error) {
	if s.cache.Contains(hash.String()) {
		return true, nil
	}
	return s.ds.Has(ctx, headerKey(hash))
}

// Best returns the best header. It returns ErrNotFound if none has been marked.
func (s *ChainStore) Best(ctx context.Context) (*header.Header, error) {
	return s.pointer(ctx, bestKey)
}

// Finalized returns the finalized header. It returns ErrNotFound if none has been finalized.
func (s *ChainStore) Finalized(ctx context.Context) (*header.Header, error) {
	return s.pointer(ctx, finalizedKey)
}

// MarkBest marks the header with the given hash as the best one.
// It returns false if the header is not known.
// A header below the finalized one, or conflicting with it at the same height,
// is known, but does not become best.
func (s *ChainStore) MarkBest(ctx context.Context, hash libhead.Hash) (bool, error) {
	s.pointerLk.Lock()
	defer s.pointerLk.Unlock()

	h, err := s.Get(ctx, hash)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	finalized, err := s.optionalPointer(ctx, finalizedKey)
	if err != nil {
		return false, err
	}
	switch {
	case finalized == nil:
	case h.Height() < finalized.Height():
		log.Warnw("ignoring best head below finalized head",
			"height", h.Height(),
			"finalized", finalized.Height(),
		)
		return true, nil
	case conflicts(h, finalized):
		log.Warnw("ignoring best head conflicting with finalized head",
			"height", h.Height(),
			"hash", hash,
			"finalized", finalized.Hash(),
		)
		return true, nil
	}

	if err = s.ds.Put(ctx, bestKey, hash); err != nil {
		return false, fmt.Errorf("store: writing best pointer: %w", err)
	}

	log.Debugw("new best head", "height", h.Height(), "hash", hash)
	return true, nil
}

// Finalize finalizes the header with the given hash.
// It returns false if the header is not known.
// Finalizing a header at or below the finalized one has no effect, and a
// header conflicting with the finalized one is logged as well. If the
// header is above the best one, it becomes the best one as well.
func (s *ChainStore) Finalize(ctx context.Context, hash libhead.Hash) (bool, error) {
	s.pointerLk.Lock()
	defer s.pointerLk.Unlock()

	h, err := s.Get(ctx, hash)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	finalized, err := s.optionalPointer(ctx, finalizedKey)
	if err != nil {
		return false, err
	}
	if finalized != nil && h.Height() <= finalized.Height() {
		if conflicts(h, finalized) {
			log.Warnw("ignoring conflicting finalized head",
				"height", h.Height(),
				"hash", hash,
				"finalized", finalized.Hash(),
			)
			return true, nil
		}
		log.Debugw("header already finalized", "height", h.Height(), "finalized", finalized.Height())
		return true, nil
	}

	best, err := s.optionalPointer(ctx, bestKey)
	if err != nil {
		return false, err
	}

	batch, err := s.ds.Batch(ctx)
	if err != nil {
		return false, fmt.Errorf("store: creating batch: %w", err)
	}
	if err = batch.Put(ctx, finalizedKey, hash); err != nil {
		return false, fmt.Errorf("store: writing finalized pointer: %w", err)
	}
	if best == nil || best.Height() < h.Height() {
		if err = batch.Put(ctx, bestKey, hash); err != nil {
			return false, fmt.Errorf("store: writing best pointer: %w", err)
		}
	}
	if err = batch.Commit(ctx); err != nil {
		return false, fmt.Errorf("store: committing pointers: %w", err)
	}

	log.Debugw("new finalized head", "height", h.Height(), "hash", hash)
	return true, nil
}

func (s *ChainStore) pointer(ctx context.Context, key datastore.Key) (*header.Header, error) {
	hash, err := s.ds.Get(ctx, key)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading %s pointer: %w", key.Name(), err)
	}
	return s.Get(ctx, hash)
}

// optionalPointer is like pointer, but returns nil header if the pointer is not set.
func (s *ChainStore) optionalPointer(ctx context.Context, key datastore.Key) (*header.Header, error) {
	h, err := s.pointer(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return h, err
}

func headerKey(hash libhead.Hash) datastore.Key {
	return headersPrefix.ChildString(hash.String())
}

// conflicts reports whether h is a different header at the height of the finalized one.
func conflicts(h, finalized *header.Header) bool {
	return h.Height() == finalized.Height() && !bytes.Equal(h.Hash(), finalized.Hash())
}
