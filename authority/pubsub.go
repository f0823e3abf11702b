package authority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/celestiaorg/head-relay/relay"
)

var log = logging.Logger("authority")

var errMissingHeadData = errors.New("authority: head update without head data")

// bestTopic hardcodes the name of the floodsub topic carrying best head updates of the given chain.
func bestTopic(id relay.ChainID) string {
	return "relay-heads/v0.0.1/" + id.String() + "/best"
}

// finalizedTopic hardcodes the name of the floodsub topic carrying finalized head data of the given chain.
func finalizedTopic(id relay.ChainID) string {
	return "relay-heads/v0.0.1/" + id.String() + "/finalized"
}

// PubSub is a relay.Authority receiving dependent chain heads over "relay-heads" floodsub topics.
// It also publishes to the same topics, so a watcher of the authority chain can feed
// every relay listening on the network.
type PubSub struct {
	pubSub *pubsub.PubSub

	topicsLk sync.Mutex
	topics   map[string]*pubsub.Topic
}

// NewPubSub creates a libp2p.PubSub wrapper.
func NewPubSub(ctx context.Context, h host.Host, opts ...pubsub.Option) (*PubSub, error) {
	ps, err := pubsub.NewFloodSub(ctx, h, opts...)
	if err != nil {
		return nil, err
	}
	return &PubSub{
		pubSub: ps,
		topics: make(map[string]*pubsub.Topic),
	}, nil
}

// Stop unregisters validators and closes every joined topic.
// Topics with live subscriptions stay open.
func (s *PubSub) Stop(context.Context) error {
	s.topicsLk.Lock()
	defer s.topicsLk.Unlock()

	var errs []error
	for name, topic := range s.topics {
		if err := s.pubSub.UnregisterTopicValidator(name); err != nil {
			log.Warnw("unregistering topic validator", "topic", name, "err", err)
		}
		if err := topic.Close(); err != nil {
			errs = append(errs, fmt.Errorf("authority: closing topic %s: %w", name, err))
		}
		delete(s.topics, name)
	}
	return errors.Join(errs...)
}

// HeadUpdates implements relay.Authority.
func (s *PubSub) HeadUpdates(_ context.Context, id relay.ChainID) (relay.Subscription[*relay.HeadUpdate], error) {
	topic, err := s.join(bestTopic(id))
	if err != nil {
		return nil, err
	}
	return newSubscription(topic, func(msg *pubsub.Message) (*relay.HeadUpdate, error) {
		if upd, ok := msg.ValidatorData.(*relay.HeadUpdate); ok {
			return upd, nil
		}
		return unmarshalHeadUpdate(msg.Data)
	})
}

// FinalizedHeads implements relay.Authority.
func (s *PubSub) FinalizedHeads(_ context.Context, id relay.ChainID) (relay.Subscription[[]byte], error) {
	topic, err := s.join(finalizedTopic(id))
	if err != nil {
		return nil, err
	}
	return newSubscription(topic, func(msg *pubsub.Message) ([]byte, error) {
		return msg.Data, nil
	})
}

// PublishHeadUpdate sends the given HeadUpdate of the given chain to every connected peer.
func (s *PubSub) PublishHeadUpdate(
	ctx context.Context,
	id relay.ChainID,
	upd *relay.HeadUpdate,
	opts ...pubsub.PubOpt,
) error {
	bin, err := json.Marshal(upd)
	if err != nil {
		return fmt.Errorf("authority: marshalling head update: %w", err)
	}
	return s.publish(ctx, bestTopic(id), bin, opts...)
}

// PublishFinalized sends the given finalized head data of the given chain to every connected peer.
func (s *PubSub) PublishFinalized(ctx context.Context, id relay.ChainID, headData []byte, opts ...pubsub.PubOpt) error {
	return s.publish(ctx, finalizedTopic(id), headData, opts...)
}

func (s *PubSub) publish(ctx context.Context, name string, data []byte, opts ...pubsub.PubOpt) error {
	topic, err := s.join(name)
	if err != nil {
		return err
	}
	if err = topic.Publish(ctx, data, opts...); err != nil {
		return fmt.Errorf("authority: publishing to %s: %w", name, err)
	}
	return nil
}

// join joins the named topic once and registers its validator.
func (s *PubSub) join(name string) (*pubsub.Topic, error) {
	s.topicsLk.Lock()
	defer s.topicsLk.Unlock()

	if topic, ok := s.topics[name]; ok {
		return topic, nil
	}

	if err := s.pubSub.RegisterTopicValidator(name, validatorFor(name)); err != nil {
		return nil, fmt.Errorf("authority: registering validator for %s: %w", name, err)
	}
	topic, err := s.pubSub.Join(name)
	if err != nil {
		_ = s.pubSub.UnregisterTopicValidator(name)
		return nil, fmt.Errorf("authority: joining %s: %w", name, err)
	}

	log.Infow("joined topic", "topic", name)
	s.topics[name] = topic
	return topic, nil
}

// validatorFor rejects messages that can never be relayed.
// Head data itself is opaque here, the relay decides whether it is valid.
func validatorFor(name string) pubsub.ValidatorEx {
	return func(_ context.Context, p peer.ID, msg *pubsub.Message) pubsub.ValidationResult {
		if len(msg.Data) == 0 {
			log.Debugw("rejecting empty message", "topic", name, "from", p.ShortString())
			return pubsub.ValidationReject
		}
		if !strings.HasSuffix(name, "/best") {
			return pubsub.ValidationAccept
		}

		upd, err := unmarshalHeadUpdate(msg.Data)
		if err != nil {
			log.Debugw("rejecting head update", "topic", name, "from", p.ShortString(), "err", err)
			return pubsub.ValidationReject
		}
		msg.ValidatorData = upd
		return pubsub.ValidationAccept
	}
}

func unmarshalHeadUpdate(data []byte) (*relay.HeadUpdate, error) {
	var upd relay.HeadUpdate
	if err := json.Unmarshal(data, &upd); err != nil {
		return nil, fmt.Errorf("authority: unmarshalling head update: %w", err)
	}
	if len(upd.HeadData) == 0 {
		return nil, errMissingHeadData
	}
	return &upd, nil
}
