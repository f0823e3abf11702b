package relay

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// follow drives the subscription until it ends or fails. Every item is decoded
// and dispatched to the local chain in the order the subscription yields them.
func follow[T any](
	ctx context.Context,
	sub Subscription[T],
	headData func(T) []byte,
	decode DecodeFn,
	dispatch func(context.Context, Header) error,
) error {
	for {
		item, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrSubscriptionClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RemoteError{Err: err}
		}
		// the other follower may have halted while this one was waiting
		if ctx.Err() != nil {
			return ctx.Err()
		}

		h, err := decode(headData(item))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidHeadData, err)
		}

		if err = dispatch(ctx, h); err != nil {
			return err
		}
	}
}

func updateHeadData(u *HeadUpdate) []byte {
	if u == nil {
		return nil
	}
	return u.HeadData
}

func finalizedHeadData(data []byte) []byte {
	return data
}

// followBest follows best head updates and marks each head as the local best block.
func (r *Relay) followBest(ctx context.Context, sub Subscription[*HeadUpdate]) error {
	return follow(ctx, sub, updateHeadData, r.decode, r.markBest)
}

// followFinalized follows finalized heads and finalizes each head on the local chain.
func (r *Relay) followFinalized(ctx context.Context, sub Subscription[[]byte]) error {
	return follow(ctx, sub, finalizedHeadData, r.decode, r.finalize)
}

func (r *Relay) markBest(ctx context.Context, h Header) error {
	ctx, span := tracer.Start(ctx, "mark-best", trace.WithAttributes(
		attribute.Int64("height", int64(h.Height())), //nolint:gosec
	))
	defer span.End()

	known, err := r.local.MarkBest(ctx, h.Hash())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &LocalError{Err: err}
	}
	span.SetAttributes(attribute.Bool("known", known))

	if !known {
		log.Debugw("best head is not known locally", "chain", r.chainID, "height", h.Height(), "hash", h.Hash())
	} else {
		log.Debugw("marked best", "chain", r.chainID, "height", h.Height(), "hash", h.Hash())
	}
	r.metrics.observeBest(ctx, h, known)
	return nil
}

func (r *Relay) finalize(ctx context.Context, h Header) error {
	ctx, span := tracer.Start(ctx, "finalize", trace.WithAttributes(
		attribute.Int64("height", int64(h.Height())), //nolint:gosec
	))
	defer span.End()

	known, err := r.local.Finalize(ctx, h.Hash())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &LocalError{Err: err}
	}
	span.SetAttributes(attribute.Bool("known", known))

	if !known {
		log.Debugw("finalized head is not known locally", "chain", r.chainID, "height", h.Height(), "hash", h.Hash())
	} else {
		log.Debugw("finalized", "chain", r.chainID, "height", h.Height(), "hash", h.Hash())
	}
	r.metrics.observeFinalized(ctx, h, known)
	return nil
}
