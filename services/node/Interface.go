// Package node defines the contract the wallet uses to talk to the chain,
// together with its two backends: a remote daemon proxy and an in-process
// full node.
package node

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/karbo-project/walletnode/model"
)

// Type tags a node with its deployment mode.
type Type int

const (
	TypeRemote Type = iota
	TypeEmbedded
)

func (t Type) String() string {
	switch t {
	case TypeRemote:
		return "remote"
	case TypeEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// Observer receives asynchronous node events. Callbacks are delivered on
// whichever goroutine detects the event, so implementations must be safe
// for concurrent use.
type Observer interface {
	PeerCountUpdated(count int)
	LocalBlockchainUpdated(height uint32)
	LastKnownBlockHeightUpdated(height uint32)
	ConnectionStatusUpdated(connected bool)
}

// Node is the capability set every backend exposes. Construct one with
// NewRemoteNode or NewEmbeddedNode, Init it once, Run it until Stop.
type Node interface {
	// Init prepares the node. For the embedded backend this applies the
	// configured rewind, loads the core and brings up the network host.
	Init(ctx context.Context) error

	// Run blocks serving the node until the context is cancelled or Stop
	// is called from another goroutine.
	Run(ctx context.Context) error

	Stop(ctx context.Context) error

	Type() Type
	AddObserver(observer Observer)

	LastKnownBlockHeight() uint32
	LastLocalBlockHeight() uint32
	LastLocalBlockTimestamp() uint64
	LastLocalBlockHeaderInfo() model.BlockHeaderInfo
	PeerCount() int
	Difficulty() uint64
	TxCount() uint64
	TxPoolSize() uint64
	AltBlocksCount() uint64
	ConnectionsCount() int
	OutgoingConnectionsCount() int
	IncomingConnectionsCount() int
	WhitePeerlistSize() int
	GreyPeerlistSize() int
	MinimalFee() uint64
	FeeAddress() string
	FeeAmount() uint64
	AlreadyGeneratedCoins() uint64
	NextReward() uint64
	CurrentBlockMajorVersion() uint8

	// GetBlockTemplate and HandleBlockFound report failure as false and
	// never let a backend fault escape to the caller.
	GetBlockTemplate(ctx context.Context, req *model.BlockTemplateRequest) (*model.BlockTemplate, bool)
	HandleBlockFound(ctx context.Context, tmpl *model.BlockTemplate) bool

	// GetBlockLongHash computes the slow mining hash of a block blob.
	// Only the embedded backend supports it.
	GetBlockLongHash(ctx context.Context, blockBlob []byte) (*chainhash.Hash, bool)

	GetConnections(ctx context.Context) []model.ConnectionRecord

	ConvertPaymentID(paymentIDStr string) ([]byte, error)
	ExtractPaymentID(extra []byte) string
}
