package authority

import (
	"context"
	"errors"

	pubsub "github.com/libp2p/go-libp2p-pubsub"

	"github.com/celestiaorg/head-relay/relay"
)

// subscription is a wrapper over pubsub.Subscription that handles
// receiving items of a "relay-heads" topic from other peers.
type subscription[T any] struct {
	subscription *pubsub.Subscription
	decode       func(*pubsub.Message) (T, error)
}

func newSubscription[T any](t *pubsub.Topic, decode func(*pubsub.Message) (T, error)) (*subscription[T], error) {
	subs, err := t.Subscribe()
	if err != nil {
		return nil, err
	}

	return &subscription[T]{subscription: subs, decode: decode}, nil
}

// Next blocks the caller until any new item arrives.
// Returns only items which successfully pass validation.
func (subs *subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	msg, err := subs.subscription.Next(ctx)
	switch {
	case errors.Is(err, pubsub.ErrSubscriptionCancelled):
		return zero, relay.ErrSubscriptionClosed
	case err != nil:
		if ctx.Err() == nil {
			log.Errorw("listening for the next item", "topic", subs.subscription.Topic(), "err", err)
		}
		return zero, err
	}

	log.Debugw("received message", "topic", msg.GetTopic(), "sender", msg.ReceivedFrom)
	return subs.decode(msg)
}

// Cancel stops the subscription.
func (subs *subscription[T]) Cancel() {
	subs.subscription.Cancel()
}
