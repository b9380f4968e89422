package node

import (
	"runtime"

	"github.com/karbo-project/walletnode/chaincfg"
	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/services/p2p"
	"github.com/karbo-project/walletnode/services/rpc"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/stores/chaindb"
	"github.com/karbo-project/walletnode/ulogger"
)

// NewRemoteNode builds a node backed by a daemon reachable over JSON-RPC.
// No bootstrap work is needed, the daemon owns its own storage.
func NewRemoteNode(logger ulogger.Logger, tSettings *settings.Settings) *RemoteNode {
	initPrometheusMetrics()

	return &RemoteNode{
		logger:   logger,
		settings: tSettings,
		client:   rpc.NewClient(logger, tSettings),
		stopCh:   make(chan struct{}),
	}
}

// NewEmbeddedNode bootstraps storage and checkpoints, then builds the
// consensus core through the supplied factory. The returned node is the
// sole owner of the storage handle.
func NewEmbeddedNode(logger ulogger.Logger, tSettings *settings.Settings, coreFactory CoreFactory) (*EmbeddedNode, error) {
	initPrometheusMetrics()

	store, err := chaindb.Bootstrap(logger, tSettings)
	if err != nil {
		return nil, errors.NewNotInitializedError("[EmbeddedNode] storage bootstrap failed", err)
	}

	checkpoints, err := chaincfg.LoadCheckpoints(logger, tSettings.ChainCfgParams, chaincfg.CheckpointOptions{
		Disabled:   tSettings.Node.NoCheckpoints,
		Testnet:    tSettings.Testnet,
		AllowReorg: tSettings.Node.AllowReorg,
	})
	if err != nil {
		_ = store.Close()
		return nil, errors.NewNotInitializedError("[EmbeddedNode] checkpoint bootstrap failed", err)
	}

	core, err := coreFactory(logger, store, checkpoints, runtime.NumCPU())
	if err != nil {
		_ = store.Close()
		return nil, errors.NewNotInitializedError("[EmbeddedNode] core construction failed", err)
	}

	return &EmbeddedNode{
		logger:      logger,
		settings:    tSettings,
		store:       store,
		checkpoints: checkpoints,
		core:        core,
		p2pServer:   p2p.NewServer(logger, tSettings),
		lifecycle:   newLifecycleFSM(),
		stopCh:      make(chan struct{}),
	}, nil
}
