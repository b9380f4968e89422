package node

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/looplab/fsm"
	"golang.org/x/sync/errgroup"

	"github.com/karbo-project/walletnode/chaincfg"
	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/model"
	"github.com/karbo-project/walletnode/services/p2p"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/stores/chaindb"
	"github.com/karbo-project/walletnode/ulogger"
	"github.com/karbo-project/walletnode/util/txextra"
)

// EmbeddedNode runs a full node in-process. It owns the storage handle,
// the consensus core and the p2p server; statistics are read from local
// state without any network round trip.
type EmbeddedNode struct {
	logger      ulogger.Logger
	settings    *settings.Settings
	store       chaindb.Store
	checkpoints *chaincfg.CheckpointSet
	core        Core
	p2pServer   p2p.ServerI

	lifecycle *fsm.FSM

	observersMu sync.Mutex
	observers   []Observer

	stopCh   chan struct{}
	stopOnce sync.Once
}

func (n *EmbeddedNode) Type() Type {
	return TypeEmbedded
}

func (n *EmbeddedNode) AddObserver(observer Observer) {
	n.observersMu.Lock()
	defer n.observersMu.Unlock()

	n.observers = append(n.observers, observer)
}

func (n *EmbeddedNode) eachObserver(fn func(Observer)) {
	n.observersMu.Lock()
	observers := make([]Observer, len(n.observers))
	copy(observers, n.observers)
	n.observersMu.Unlock()

	for _, o := range observers {
		fn(o)
	}
}

// Init applies the configured rewind, loads the core from storage and
// brings up the network host. Any failure collapses to a not-initialized
// error; there is no partial-start state.
func (n *EmbeddedNode) Init(ctx context.Context) error {
	if err := n.lifecycle.Event(ctx, eventInit); err != nil {
		return errors.NewNotInitializedError("[EmbeddedNode] invalid lifecycle transition", err)
	}

	if n.settings.Node.RewindToHeight != settings.NoRewind {
		n.logger.Warnf("[EmbeddedNode] rewinding chain to height %d", n.settings.Node.RewindToHeight)

		if err := n.core.Rewind(ctx, n.settings.Node.RewindToHeight); err != nil {
			return errors.NewNotInitializedError("[EmbeddedNode] rewind failed", err)
		}
	}

	if err := n.core.Load(ctx); err != nil {
		return errors.NewNotInitializedError("[EmbeddedNode] core load failed", err)
	}

	if err := n.p2pServer.Init(ctx); err != nil {
		return errors.NewNotInitializedError("[EmbeddedNode] p2p init failed", err)
	}

	if err := n.p2pServer.SetTopicHandler(ctx, n.p2pServer.BlockTopicName(), n.handleBlockTopic); err != nil {
		return errors.NewNotInitializedError("[EmbeddedNode] block topic handler registration failed", err)
	}

	n.p2pServer.SetPeerCountCallback(func(count int) {
		prometheusNodePeerCount.Set(float64(count))
		n.eachObserver(func(o Observer) { o.PeerCountUpdated(count) })
	})

	n.core.SetLocalBlockchainUpdatedCallback(func(height uint32) {
		prometheusNodeLocalHeight.Set(float64(height))
		n.eachObserver(func(o Observer) { o.LocalBlockchainUpdated(height) })
	})

	n.core.SetLastKnownBlockHeightUpdatedCallback(func(height uint32) {
		prometheusNodeKnownHeight.Set(float64(height))
		n.eachObserver(func(o Observer) { o.LastKnownBlockHeightUpdated(height) })
	})

	n.logger.Infof("[EmbeddedNode] initialized at height %d", n.core.Height())

	return nil
}

// Run serves the p2p event loop until Stop is called or the context is
// cancelled, then tears down in order: save core, close storage, release
// the network host. Storage must outlive the core flush.
func (n *EmbeddedNode) Run(ctx context.Context) error {
	if err := n.lifecycle.Event(ctx, eventRun); err != nil {
		return errors.NewServiceNotStartedError("[EmbeddedNode] invalid lifecycle transition", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return n.p2pServer.Start(gCtx)
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
		case <-n.stopCh:
			cancel()
		}

		return nil
	})

	runErr := g.Wait()

	if err := n.core.Save(context.Background()); err != nil {
		n.logger.Errorf("[EmbeddedNode] error saving core: %v", err)
	}

	if err := n.store.Close(); err != nil {
		n.logger.Errorf("[EmbeddedNode] error closing storage: %v", err)
	}

	if err := n.p2pServer.Stop(context.Background()); err != nil {
		n.logger.Errorf("[EmbeddedNode] error stopping p2p server: %v", err)
	}

	n.logger.Infof("[EmbeddedNode] run loop finished")

	return runErr
}

// Stop signals the run loop, which is the only way to unblock Run.
func (n *EmbeddedNode) Stop(ctx context.Context) error {
	n.logger.Infof("[EmbeddedNode] stopping")

	if err := n.lifecycle.Event(ctx, eventStop); err != nil {
		return errors.NewServiceError("[EmbeddedNode] invalid lifecycle transition", err)
	}

	n.stopOnce.Do(func() {
		close(n.stopCh)
	})

	return nil
}

func (n *EmbeddedNode) LastKnownBlockHeight() uint32 {
	return n.core.Height()
}

func (n *EmbeddedNode) LastLocalBlockHeight() uint32 {
	return n.core.Height()
}

func (n *EmbeddedNode) LastLocalBlockTimestamp() uint64 {
	return n.core.TopBlockHeaderInfo().Timestamp
}

func (n *EmbeddedNode) LastLocalBlockHeaderInfo() model.BlockHeaderInfo {
	return n.core.TopBlockHeaderInfo()
}

func (n *EmbeddedNode) PeerCount() int {
	return n.p2pServer.ConnectionCount()
}

func (n *EmbeddedNode) Difficulty() uint64 {
	return n.core.NextBlockDifficulty()
}

// TxCount excludes one coinbase transaction per block.
func (n *EmbeddedNode) TxCount() uint64 {
	return n.core.ChainTransactionCount() - uint64(n.core.Height())
}

func (n *EmbeddedNode) TxPoolSize() uint64 {
	return n.core.PoolTransactionCount()
}

func (n *EmbeddedNode) AltBlocksCount() uint64 {
	return n.core.AlternativeBlockCount()
}

func (n *EmbeddedNode) ConnectionsCount() int {
	return n.p2pServer.ConnectionCount()
}

func (n *EmbeddedNode) OutgoingConnectionsCount() int {
	return n.p2pServer.OutgoingConnectionCount()
}

func (n *EmbeddedNode) IncomingConnectionsCount() int {
	return n.p2pServer.ConnectionCount() - n.p2pServer.OutgoingConnectionCount()
}

func (n *EmbeddedNode) WhitePeerlistSize() int {
	return n.p2pServer.WhitePeerlistSize()
}

func (n *EmbeddedNode) GreyPeerlistSize() int {
	return n.p2pServer.GreyPeerlistSize()
}

func (n *EmbeddedNode) MinimalFee() uint64 {
	return n.core.MinimalFee()
}

// FeeAddress is a remote-daemon concept, the embedded node charges no fee.
func (n *EmbeddedNode) FeeAddress() string {
	return ""
}

func (n *EmbeddedNode) FeeAmount() uint64 {
	return 0
}

func (n *EmbeddedNode) AlreadyGeneratedCoins() uint64 {
	return n.core.AlreadyGeneratedCoins()
}

func (n *EmbeddedNode) NextReward() uint64 {
	return n.core.NextBlockReward()
}

func (n *EmbeddedNode) CurrentBlockMajorVersion() uint8 {
	return n.core.CurrentBlockMajorVersion()
}

func (n *EmbeddedNode) GetBlockTemplate(ctx context.Context, req *model.BlockTemplateRequest) (*model.BlockTemplate, bool) {
	tmpl, err := n.core.GetBlockTemplate(ctx, req)
	if err != nil {
		n.logger.Errorf("[EmbeddedNode] block template assembly failed: %v", err)
		return nil, false
	}

	return tmpl, true
}

// HandleBlockFound submits a mined block to the core and relays it to the
// network. A relay failure does not fail the submission.
func (n *EmbeddedNode) HandleBlockFound(ctx context.Context, tmpl *model.BlockTemplate) bool {
	if err := n.core.HandleBlockFound(ctx, tmpl); err != nil {
		n.logger.Errorf("[EmbeddedNode] found block rejected: %v", err)
		return false
	}

	if err := n.p2pServer.Publish(ctx, n.p2pServer.BlockTopicName(), tmpl.Blob); err != nil {
		n.logger.Errorf("[EmbeddedNode] error relaying found block: %v", err)
	}

	return true
}

// handleBlockTopic applies blocks announced by peers. Height change
// notifications flow out through the callbacks the core fires when a block
// is applied.
func (n *EmbeddedNode) handleBlockTopic(ctx context.Context, msg []byte, from string) {
	height, err := n.core.HandleIncomingBlock(ctx, msg)
	if err != nil {
		n.logger.Warnf("[EmbeddedNode] block from %s rejected: %v", from, err)
		return
	}

	n.logger.Debugf("[EmbeddedNode] accepted block from %s, height now %d", from, height)
}

func (n *EmbeddedNode) GetBlockLongHash(ctx context.Context, blockBlob []byte) (*chainhash.Hash, bool) {
	hash, err := n.core.BlockLongHash(ctx, blockBlob)
	if err != nil {
		n.logger.Errorf("[EmbeddedNode] long hash failed: %v", err)
		return nil, false
	}

	return hash, true
}

func (n *EmbeddedNode) GetConnections(_ context.Context) []model.ConnectionRecord {
	return n.p2pServer.Connections()
}

func (n *EmbeddedNode) ConvertPaymentID(paymentIDStr string) ([]byte, error) {
	return txextra.ConvertPaymentID(paymentIDStr)
}

func (n *EmbeddedNode) ExtractPaymentID(extra []byte) string {
	return txextra.ExtractPaymentID(extra)
}

var _ Node = (*EmbeddedNode)(nil)
