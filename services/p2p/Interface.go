// Package p2p provides the gossip network layer used by the embedded node.
package p2p

import (
	"context"

	"github.com/karbo-project/walletnode/model"
)

// Handler processes a raw message received on a subscribed topic.
type Handler func(ctx context.Context, msg []byte, from string)

// ServerI is the network surface consumed by the embedded node adapter.
type ServerI interface {
	// Init creates the libp2p host and wires connection tracking. It does
	// not dial anyone.
	Init(ctx context.Context) error

	// Start joins the gossip topics, kicks off static peer dialing and
	// blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	Stop(ctx context.Context) error

	// BlockTopicName and TxTopicName return the fully prefixed gossip
	// topic names for the configured network.
	BlockTopicName() string
	TxTopicName() string

	// SetTopicHandler registers the handler for a configured topic. Called
	// before Start, the subscription is deferred until gossipsub is up.
	SetTopicHandler(ctx context.Context, topicName string, handler Handler) error
	Publish(ctx context.Context, topicName string, msgBytes []byte) error

	ConnectionCount() int
	OutgoingConnectionCount() int
	WhitePeerlistSize() int
	GreyPeerlistSize() int
	Connections() []model.ConnectionRecord

	// SetPeerCountCallback registers a callback invoked whenever the number
	// of connected peers changes.
	SetPeerCountCallback(fn func(count int))
}
