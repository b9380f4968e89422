package node

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/karbo-project/walletnode/model"
	"github.com/karbo-project/walletnode/services/rpc"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
	"github.com/karbo-project/walletnode/util/txextra"
)

// RemoteNode proxies the node contract to a daemon over JSON-RPC. Statistic
// accessors read a cached getinfo snapshot refreshed by the Run loop, so
// they never touch the network; only template issuance, block submission
// and connection enumeration issue dedicated calls.
type RemoteNode struct {
	logger   ulogger.Logger
	settings *settings.Settings
	client   rpc.ClientI

	observersMu sync.Mutex
	observers   []Observer

	statsMu   sync.RWMutex
	info      rpc.GetInfoResponse
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func (n *RemoteNode) Type() Type {
	return TypeRemote
}

func (n *RemoteNode) AddObserver(observer Observer) {
	n.observersMu.Lock()
	defer n.observersMu.Unlock()

	n.observers = append(n.observers, observer)
}

func (n *RemoteNode) eachObserver(fn func(Observer)) {
	n.observersMu.Lock()
	observers := make([]Observer, len(n.observers))
	copy(observers, n.observers)
	n.observersMu.Unlock()

	for _, o := range observers {
		fn(o)
	}
}

// Init primes the stats cache with one getinfo call. A daemon that is down
// at startup is not fatal, the Run loop keeps retrying and observers see
// the connectivity flip once it comes back.
func (n *RemoteNode) Init(ctx context.Context) error {
	n.logger.Infof("[RemoteNode] connecting to daemon at %s:%d", n.settings.Daemon.Host, n.settings.Daemon.Port)

	n.refreshStats(ctx)

	return nil
}

// Run polls the daemon for stats until the context is cancelled or Stop is
// called.
func (n *RemoteNode) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.settings.Daemon.StatsPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.logger.Infof("[RemoteNode] run loop finished")
			return nil
		case <-n.stopCh:
			n.logger.Infof("[RemoteNode] run loop finished")
			return nil
		case <-ticker.C:
			n.refreshStats(ctx)
		}
	}
}

func (n *RemoteNode) Stop(_ context.Context) error {
	n.logger.Infof("[RemoteNode] stopping")

	n.stopOnce.Do(func() {
		close(n.stopCh)
	})

	return nil
}

func (n *RemoteNode) refreshStats(ctx context.Context) {
	resp, err := n.client.GetInfo(ctx)

	if errText := rpc.InterpretResponse(err == nil, respStatus(resp)); errText != "" {
		n.logger.Warnf("[RemoteNode] getinfo failed: %s", errText)
		n.setConnected(false)

		return
	}

	n.statsMu.Lock()
	prev := n.info
	n.info = *resp
	n.statsMu.Unlock()

	n.setConnected(true)

	prometheusNodeLocalHeight.Set(float64(resp.Height))
	prometheusNodeKnownHeight.Set(float64(resp.LastKnownBlockIndex))

	if resp.Height != prev.Height {
		n.eachObserver(func(o Observer) { o.LocalBlockchainUpdated(uint32(resp.Height)) })
	}

	if resp.LastKnownBlockIndex != prev.LastKnownBlockIndex {
		n.eachObserver(func(o Observer) { o.LastKnownBlockHeightUpdated(uint32(resp.LastKnownBlockIndex)) })
	}

	peerCount := int(resp.IncomingConnectionsCount + resp.OutgoingConnectionsCount)
	prevPeerCount := int(prev.IncomingConnectionsCount + prev.OutgoingConnectionsCount)

	prometheusNodePeerCount.Set(float64(peerCount))

	if peerCount != prevPeerCount {
		n.eachObserver(func(o Observer) { o.PeerCountUpdated(peerCount) })
	}
}

func respStatus(resp *rpc.GetInfoResponse) string {
	if resp == nil {
		return ""
	}

	return resp.Status
}

func (n *RemoteNode) setConnected(connected bool) {
	n.statsMu.Lock()
	changed := n.connected != connected
	n.connected = connected
	n.statsMu.Unlock()

	if changed {
		n.eachObserver(func(o Observer) { o.ConnectionStatusUpdated(connected) })
	}
}

func (n *RemoteNode) snapshot() rpc.GetInfoResponse {
	n.statsMu.RLock()
	defer n.statsMu.RUnlock()

	return n.info
}

func (n *RemoteNode) LastKnownBlockHeight() uint32 {
	return uint32(n.snapshot().LastKnownBlockIndex)
}

func (n *RemoteNode) LastLocalBlockHeight() uint32 {
	return uint32(n.snapshot().Height)
}

func (n *RemoteNode) LastLocalBlockTimestamp() uint64 {
	return n.snapshot().LastBlockTimestamp
}

func (n *RemoteNode) LastLocalBlockHeaderInfo() model.BlockHeaderInfo {
	info := n.snapshot()

	header := model.BlockHeaderInfo{
		Height:       uint32(info.Height),
		Timestamp:    info.LastBlockTimestamp,
		MajorVersion: info.BlockMajorVersion,
		Difficulty:   info.Difficulty,
		Reward:       info.NextReward,
	}

	if hash, err := chainhash.NewHashFromStr(info.TopBlockHash); err == nil {
		header.Hash = *hash
	}

	return header
}

func (n *RemoteNode) PeerCount() int {
	info := n.snapshot()
	return int(info.IncomingConnectionsCount + info.OutgoingConnectionsCount)
}

func (n *RemoteNode) Difficulty() uint64 {
	return n.snapshot().Difficulty
}

// TxCount returns the daemon's transaction count, which already excludes
// one coinbase per block.
func (n *RemoteNode) TxCount() uint64 {
	return n.snapshot().TxCount
}

func (n *RemoteNode) TxPoolSize() uint64 {
	return n.snapshot().TxPoolSize
}

func (n *RemoteNode) AltBlocksCount() uint64 {
	return n.snapshot().AltBlocksCount
}

func (n *RemoteNode) ConnectionsCount() int {
	return n.PeerCount()
}

func (n *RemoteNode) OutgoingConnectionsCount() int {
	return int(n.snapshot().OutgoingConnectionsCount)
}

func (n *RemoteNode) IncomingConnectionsCount() int {
	return int(n.snapshot().IncomingConnectionsCount)
}

func (n *RemoteNode) WhitePeerlistSize() int {
	return int(n.snapshot().WhitePeerlistSize)
}

func (n *RemoteNode) GreyPeerlistSize() int {
	return int(n.snapshot().GreyPeerlistSize)
}

func (n *RemoteNode) MinimalFee() uint64 {
	return n.snapshot().MinimalFee
}

func (n *RemoteNode) FeeAddress() string {
	return n.snapshot().FeeAddress
}

func (n *RemoteNode) FeeAmount() uint64 {
	return n.snapshot().FeeAmount
}

func (n *RemoteNode) AlreadyGeneratedCoins() uint64 {
	return n.snapshot().AlreadyGeneratedCoins
}

func (n *RemoteNode) NextReward() uint64 {
	return n.snapshot().NextReward
}

func (n *RemoteNode) CurrentBlockMajorVersion() uint8 {
	return n.snapshot().BlockMajorVersion
}

func (n *RemoteNode) GetBlockTemplate(ctx context.Context, req *model.BlockTemplateRequest) (*model.BlockTemplate, bool) {
	resp, err := n.client.GetBlockTemplate(ctx, &rpc.GetBlockTemplateRequest{
		MinerSpendKey: req.SpendPublicKey.String(),
		MinerViewKey:  req.ViewPublicKey.String(),
		ExtraNonce:    hex.EncodeToString(req.ExtraNonce),
	})

	status := ""
	if resp != nil {
		status = resp.Status
	}

	if errText := rpc.InterpretResponse(err == nil, status); errText != "" {
		n.logger.Errorf("[RemoteNode] getblocktemplate failed: %s", errText)
		return nil, false
	}

	tmpl, err := model.NewBlockTemplateFromHex(resp.BlocktemplateBlob, resp.Difficulty, resp.Height)
	if err != nil {
		n.logger.Errorf("[RemoteNode] getblocktemplate returned malformed blob: %v", err)
		return nil, false
	}

	return tmpl, true
}

func (n *RemoteNode) HandleBlockFound(ctx context.Context, tmpl *model.BlockTemplate) bool {
	resp, err := n.client.SubmitBlock(ctx, tmpl.BlobHex())

	status := ""
	if resp != nil {
		status = resp.Status
	}

	if errText := rpc.InterpretResponse(err == nil, status); errText != "" {
		n.logger.Errorf("[RemoteNode] submitblock failed: %s", errText)
		return false
	}

	return true
}

// GetBlockLongHash is not supported against a remote daemon.
func (n *RemoteNode) GetBlockLongHash(_ context.Context, _ []byte) (*chainhash.Hash, bool) {
	return nil, false
}

func (n *RemoteNode) GetConnections(ctx context.Context) []model.ConnectionRecord {
	resp, err := n.client.GetConnections(ctx)

	status := ""
	if resp != nil {
		status = resp.Status
	}

	if errText := rpc.InterpretResponse(err == nil, status); errText != "" {
		n.logger.Errorf("[RemoteNode] get_connections failed: %s", errText)
		return nil
	}

	records := make([]model.ConnectionRecord, 0, len(resp.Connections))

	for _, conn := range resp.Connections {
		records = append(records, model.ConnectionRecord{
			PeerID:   conn.PeerID,
			Address:  conn.Address,
			Incoming: conn.Incoming,
			State:    conn.State,
		})
	}

	return records
}

func (n *RemoteNode) ConvertPaymentID(paymentIDStr string) ([]byte, error) {
	return txextra.ConvertPaymentID(paymentIDStr)
}

func (n *RemoteNode) ExtractPaymentID(extra []byte) string {
	return txextra.ExtractPaymentID(extra)
}

var _ Node = (*RemoteNode)(nil)
