package node

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/karbo-project/walletnode/chaincfg"
	"github.com/karbo-project/walletnode/model"
	"github.com/karbo-project/walletnode/stores/chaindb"
	"github.com/karbo-project/walletnode/ulogger"
)

// Core is the consensus engine behind the embedded backend. Validation
// rules live outside this module; the node only drives the lifecycle and
// reads chain state through this surface.
type Core interface {
	// Load restores the chain state from storage.
	Load(ctx context.Context) error

	// Save flushes the chain state to storage. Called once during
	// shutdown, before the storage handle is closed.
	Save(ctx context.Context) error

	// Rewind undoes recent blocks down to the given height. Destructive,
	// used for recovery.
	Rewind(ctx context.Context, height uint32) error

	// SetLocalBlockchainUpdatedCallback registers a callback invoked
	// whenever the local chain tip moves.
	SetLocalBlockchainUpdatedCallback(fn func(height uint32))

	// SetLastKnownBlockHeightUpdatedCallback registers a callback invoked
	// whenever the best height observed on the network changes.
	SetLastKnownBlockHeightUpdatedCallback(fn func(height uint32))

	Height() uint32
	TopBlockHeaderInfo() model.BlockHeaderInfo
	ChainTransactionCount() uint64
	PoolTransactionCount() uint64
	AlternativeBlockCount() uint64
	NextBlockDifficulty() uint64
	MinimalFee() uint64
	AlreadyGeneratedCoins() uint64
	NextBlockReward() uint64
	CurrentBlockMajorVersion() uint8

	// HandleIncomingBlock validates and applies a block blob received from
	// the network, returning the resulting chain height.
	HandleIncomingBlock(ctx context.Context, blockBlob []byte) (uint32, error)

	GetBlockTemplate(ctx context.Context, req *model.BlockTemplateRequest) (*model.BlockTemplate, error)
	HandleBlockFound(ctx context.Context, tmpl *model.BlockTemplate) error
	BlockLongHash(ctx context.Context, blockBlob []byte) (*chainhash.Hash, error)
}

// CoreFactory builds a Core against the bootstrapped storage handle and
// checkpoint set. workerCount hints how many validation workers to run.
type CoreFactory func(logger ulogger.Logger, store chaindb.Store, checkpoints *chaincfg.CheckpointSet, workerCount int) (Core, error)
