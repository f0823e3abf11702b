package relay

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var (
	log    = logging.Logger("relay")
	tracer = otel.Tracer("relay")
)

var errStopped = errors.New("relay: stopped")

// Relay keeps the best and finalized blocks of the local chain in line with
// the heads the authority chain tracks for the dependent chain.
//
// It follows two independent sequences of the Authority: best head updates,
// which are marked as best on the LocalChain, and finalized heads, which are
// finalized on the LocalChain. Both are followed concurrently as one unit:
// if either fails, the other one is abandoned as well.
// Relay keeps no state of its own.
type Relay struct {
	chainID   ChainID
	local     LocalChain
	authority Authority

	decode  DecodeFn
	metrics *metrics

	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewRelay creates a Relay for the given dependent chain.
// The LocalChain and the Authority are shared by both followers.
func NewRelay(chainID ChainID, local LocalChain, authority Authority, opts ...Option) (*Relay, error) {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}

	var (
		metrics *metrics
		err     error
	)
	if p.metrics {
		metrics, err = newMetrics(p.meterProvider)
		if err != nil {
			return nil, err
		}
	}

	return &Relay{
		chainID:   chainID,
		local:     local,
		authority: authority,
		decode:    p.decode,
		metrics:   metrics,
	}, nil
}

// Start kicks off following the authority chain in the background.
// A Relay can be started only once.
func (r *Relay) Start(context.Context) error {
	switch {
	case r.stopped:
		return errStopped
	case r.cancel != nil:
		return fmt.Errorf("relay: already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.Run(ctx)
	}()
	return nil
}

// Stop stops following and waits for both followers to return.
func (r *Relay) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()
	r.cancel = nil
	r.stopped = true

	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.metrics.Close()
}

// Done is closed once following started with Start has terminated,
// either because it was stopped, both sequences ended or it halted on a fault.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Run follows the authority chain until both head sequences end, either of
// them fails or ctx is canceled.
//
// A failure halts following altogether. It is logged and counted, but not
// returned: Run always completes normally.
func (r *Relay) Run(ctx context.Context) {
	log.Infow("following authority chain", "chain", r.chainID)

	err := r.follow(ctx)
	switch {
	case err == nil:
		log.Infow("authority chain head subscriptions ended", "chain", r.chainID)
	case ctx.Err() != nil:
		// whatever the followers returned, they were told to stop
		log.Debugw("stopped following authority chain", "chain", r.chainID)
	default:
		r.metrics.observeHalt(ctx, err)
		log.Warnw("could not follow authority chain",
			"chain", r.chainID,
			"reason", errorReason(err),
			"err", fmt.Sprintf("%+v", err),
		)
	}
}

// follow runs both followers and returns the first error either of them stops with.
func (r *Relay) follow(ctx context.Context) error {
	best, err := r.authority.HeadUpdates(ctx, r.chainID)
	if err != nil {
		return &RemoteError{Err: err}
	}
	defer best.Cancel()

	finalized, err := r.authority.FinalizedHeads(ctx, r.chainID)
	if err != nil {
		return &RemoteError{Err: err}
	}
	defer finalized.Cancel()

	// the group's context is canceled as soon as either follower fails,
	// which stops the other one
	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return r.followBest(ctx, best)
	})
	errg.Go(func() error {
		return r.followFinalized(ctx, finalized)
	})
	return errg.Wait()
}
