package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karbo-project/walletnode/chaincfg"
	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/model"
	"github.com/karbo-project/walletnode/services/p2p"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/stores/chaindb"
	"github.com/karbo-project/walletnode/ulogger"
)

func newTestEmbeddedNode(t *testing.T) (*EmbeddedNode, *MockCore, *p2p.Mock) {
	t.Helper()

	store, err := chaindb.NewStore(ulogger.TestLogger{}, "leveldb", t.TempDir())
	require.NoError(t, err)

	coreMock := NewMockCore()
	p2pMock := p2p.NewMock()

	n := &EmbeddedNode{
		logger: ulogger.TestLogger{},
		settings: &settings.Settings{
			Node: settings.NodeSettings{
				RewindToHeight: settings.NoRewind,
			},
		},
		store:       store,
		checkpoints: chaincfg.NewCheckpointSet(false),
		core:        coreMock,
		p2pServer:   p2pMock,
		lifecycle:   newLifecycleFSM(),
		stopCh:      make(chan struct{}),
	}

	initPrometheusMetrics()

	return n, coreMock, p2pMock
}

func TestEmbeddedNodeType(t *testing.T) {
	n, _, _ := newTestEmbeddedNode(t)
	assert.Equal(t, TypeEmbedded, n.Type())
	assert.Equal(t, "embedded", n.Type().String())
}

func TestEmbeddedNodeTxCount(t *testing.T) {
	n, coreMock, _ := newTestEmbeddedNode(t)

	coreMock.On("ChainTransactionCount").Return(uint64(525))
	coreMock.On("Height").Return(uint32(500))

	// one coinbase per block is excluded
	assert.Equal(t, uint64(25), n.TxCount())
}

func TestEmbeddedNodeConnectionArithmetic(t *testing.T) {
	n, _, p2pMock := newTestEmbeddedNode(t)

	p2pMock.On("ConnectionCount").Return(10)
	p2pMock.On("OutgoingConnectionCount").Return(4)

	assert.Equal(t, 10, n.ConnectionsCount())
	assert.Equal(t, 4, n.OutgoingConnectionsCount())
	assert.Equal(t, 6, n.IncomingConnectionsCount())
}

func TestEmbeddedNodeInit(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)

	coreMock.On("Load", mock.Anything).Return(nil)
	coreMock.On("Height").Return(uint32(365000))
	coreMock.On("SetLocalBlockchainUpdatedCallback", mock.Anything).Return()
	coreMock.On("SetLastKnownBlockHeightUpdatedCallback", mock.Anything).Return()
	p2pMock.On("Init", mock.Anything).Return(nil)
	p2pMock.On("BlockTopicName").Return("testnet-blocks")
	p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Return(nil)
	p2pMock.On("SetPeerCountCallback", mock.Anything).Return()

	require.NoError(t, n.Init(context.Background()))

	coreMock.AssertNotCalled(t, "Rewind", mock.Anything, mock.Anything)

	// a second Init is rejected
	err := n.Init(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotInitialized))
}

func TestEmbeddedNodeInitWithRewind(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)
	n.settings.Node.RewindToHeight = 360000

	coreMock.On("Rewind", mock.Anything, uint32(360000)).Return(nil)
	coreMock.On("Load", mock.Anything).Return(nil)
	coreMock.On("Height").Return(uint32(360000))
	coreMock.On("SetLocalBlockchainUpdatedCallback", mock.Anything).Return()
	coreMock.On("SetLastKnownBlockHeightUpdatedCallback", mock.Anything).Return()
	p2pMock.On("Init", mock.Anything).Return(nil)
	p2pMock.On("BlockTopicName").Return("testnet-blocks")
	p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Return(nil)
	p2pMock.On("SetPeerCountCallback", mock.Anything).Return()

	require.NoError(t, n.Init(context.Background()))

	coreMock.AssertCalled(t, "Rewind", mock.Anything, uint32(360000))
}

func TestEmbeddedNodeInitFailureCollapses(t *testing.T) {
	t.Run("core load failure", func(t *testing.T) {
		n, coreMock, _ := newTestEmbeddedNode(t)

		coreMock.On("Load", mock.Anything).Return(errors.NewStorageError("corrupt state"))

		err := n.Init(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotInitialized))
	})

	t.Run("p2p init failure", func(t *testing.T) {
		n, coreMock, p2pMock := newTestEmbeddedNode(t)

		coreMock.On("Load", mock.Anything).Return(nil)
		p2pMock.On("Init", mock.Anything).Return(errors.NewServiceError("port in use"))

		err := n.Init(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotInitialized))
	})

	t.Run("topic handler failure", func(t *testing.T) {
		n, coreMock, p2pMock := newTestEmbeddedNode(t)

		coreMock.On("Load", mock.Anything).Return(nil)
		p2pMock.On("Init", mock.Anything).Return(nil)
		p2pMock.On("BlockTopicName").Return("testnet-blocks")
		p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Return(errors.NewServiceError("handler already exists"))

		err := n.Init(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotInitialized))
	})
}

func TestEmbeddedNodeRunWithoutInit(t *testing.T) {
	n, _, _ := newTestEmbeddedNode(t)

	err := n.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrServiceNotStarted))
}

func TestEmbeddedNodeStopUnblocksRun(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)

	coreMock.On("Load", mock.Anything).Return(nil)
	coreMock.On("Height").Return(uint32(1))
	coreMock.On("Save", mock.Anything).Return(nil)
	coreMock.On("SetLocalBlockchainUpdatedCallback", mock.Anything).Return()
	coreMock.On("SetLastKnownBlockHeightUpdatedCallback", mock.Anything).Return()
	p2pMock.On("Init", mock.Anything).Return(nil)
	p2pMock.On("BlockTopicName").Return("testnet-blocks")
	p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Return(nil)
	p2pMock.On("SetPeerCountCallback", mock.Anything).Return()
	p2pMock.On("Start", mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		<-ctx.Done()
	}).Return(nil)
	p2pMock.On("Stop", mock.Anything).Return(nil)

	require.NoError(t, n.Init(context.Background()))

	done := make(chan error, 1)

	go func() {
		done <- n.Run(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, n.Stop(context.Background()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	coreMock.AssertCalled(t, "Save", mock.Anything)
	p2pMock.AssertCalled(t, "Stop", mock.Anything)

	// the storage handle was closed during teardown
	err := n.store.Set([]byte("k"), []byte("v"))
	require.Error(t, err)
}

func TestEmbeddedNodeBlockOperations(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)

	req := &model.BlockTemplateRequest{}
	tmpl := &model.BlockTemplate{Blob: []byte{0x01}, Difficulty: 100, Height: 5}

	t.Run("template success", func(t *testing.T) {
		coreMock.On("GetBlockTemplate", mock.Anything, req).Return(tmpl, nil).Once()

		got, ok := n.GetBlockTemplate(context.Background(), req)
		require.True(t, ok)
		assert.Equal(t, tmpl, got)
	})

	t.Run("template failure", func(t *testing.T) {
		coreMock.On("GetBlockTemplate", mock.Anything, req).Return(nil, errors.NewProcessingError("assembly failed")).Once()

		got, ok := n.GetBlockTemplate(context.Background(), req)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("block accepted and relayed", func(t *testing.T) {
		coreMock.On("HandleBlockFound", mock.Anything, tmpl).Return(nil).Once()
		p2pMock.On("BlockTopicName").Return("testnet-blocks").Once()
		p2pMock.On("Publish", mock.Anything, "testnet-blocks", tmpl.Blob).Return(nil).Once()

		assert.True(t, n.HandleBlockFound(context.Background(), tmpl))

		p2pMock.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("block rejected without relay", func(t *testing.T) {
		coreMock.On("HandleBlockFound", mock.Anything, tmpl).Return(errors.NewBlockInvalidError("bad proof of work")).Once()

		assert.False(t, n.HandleBlockFound(context.Background(), tmpl))

		p2pMock.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("relay failure keeps the block", func(t *testing.T) {
		coreMock.On("HandleBlockFound", mock.Anything, tmpl).Return(nil).Once()
		p2pMock.On("BlockTopicName").Return("testnet-blocks").Once()
		p2pMock.On("Publish", mock.Anything, "testnet-blocks", tmpl.Blob).Return(errors.NewServiceError("no peers")).Once()

		assert.True(t, n.HandleBlockFound(context.Background(), tmpl))
	})
}

func TestEmbeddedNodePeerCountCallbackFansOut(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)

	observer := NewMockObserver()
	n.AddObserver(observer)

	var callback func(int)

	coreMock.On("Load", mock.Anything).Return(nil)
	coreMock.On("Height").Return(uint32(1))
	coreMock.On("SetLocalBlockchainUpdatedCallback", mock.Anything).Return()
	coreMock.On("SetLastKnownBlockHeightUpdatedCallback", mock.Anything).Return()
	p2pMock.On("Init", mock.Anything).Return(nil)
	p2pMock.On("BlockTopicName").Return("testnet-blocks")
	p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Return(nil)
	p2pMock.On("SetPeerCountCallback", mock.Anything).Run(func(args mock.Arguments) {
		callback = args.Get(0).(func(int))
	}).Return()

	require.NoError(t, n.Init(context.Background()))
	require.NotNil(t, callback)

	callback(3)
	callback(7)

	peerCounts, _, _, _ := observer.Snapshot()
	assert.Equal(t, []int{3, 7}, peerCounts)
}

func TestEmbeddedNodeHeightCallbacksFanOut(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)

	observer := NewMockObserver()
	n.AddObserver(observer)

	var localCallback, knownCallback func(uint32)

	coreMock.On("Load", mock.Anything).Return(nil)
	coreMock.On("Height").Return(uint32(1))
	coreMock.On("SetLocalBlockchainUpdatedCallback", mock.Anything).Run(func(args mock.Arguments) {
		localCallback = args.Get(0).(func(uint32))
	}).Return()
	coreMock.On("SetLastKnownBlockHeightUpdatedCallback", mock.Anything).Run(func(args mock.Arguments) {
		knownCallback = args.Get(0).(func(uint32))
	}).Return()
	p2pMock.On("Init", mock.Anything).Return(nil)
	p2pMock.On("BlockTopicName").Return("testnet-blocks")
	p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Return(nil)
	p2pMock.On("SetPeerCountCallback", mock.Anything).Return()

	require.NoError(t, n.Init(context.Background()))
	require.NotNil(t, localCallback)
	require.NotNil(t, knownCallback)

	localCallback(100)
	localCallback(101)
	knownCallback(105)

	_, localHeights, knownHeights, _ := observer.Snapshot()
	assert.Equal(t, []uint32{100, 101}, localHeights)
	assert.Equal(t, []uint32{105}, knownHeights)
}

func TestEmbeddedNodeIncomingBlockDrivesCore(t *testing.T) {
	n, coreMock, p2pMock := newTestEmbeddedNode(t)

	var handler p2p.Handler

	coreMock.On("Load", mock.Anything).Return(nil)
	coreMock.On("Height").Return(uint32(1))
	coreMock.On("SetLocalBlockchainUpdatedCallback", mock.Anything).Return()
	coreMock.On("SetLastKnownBlockHeightUpdatedCallback", mock.Anything).Return()
	p2pMock.On("Init", mock.Anything).Return(nil)
	p2pMock.On("BlockTopicName").Return("testnet-blocks")
	p2pMock.On("SetTopicHandler", mock.Anything, "testnet-blocks", mock.Anything).Run(func(args mock.Arguments) {
		handler = args.Get(2).(p2p.Handler)
	}).Return(nil)
	p2pMock.On("SetPeerCountCallback", mock.Anything).Return()

	require.NoError(t, n.Init(context.Background()))
	require.NotNil(t, handler)

	blob := []byte{0x01, 0x02, 0x03}

	coreMock.On("HandleIncomingBlock", mock.Anything, blob).Return(uint32(2), nil).Once()
	handler(context.Background(), blob, "peer-a")

	// a rejected block is logged and dropped
	coreMock.On("HandleIncomingBlock", mock.Anything, blob).Return(uint32(0), errors.NewBlockInvalidError("bad proof of work")).Once()
	handler(context.Background(), blob, "peer-b")

	coreMock.AssertNumberOfCalls(t, "HandleIncomingBlock", 2)
}
