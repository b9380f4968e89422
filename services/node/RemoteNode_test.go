package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/model"
	"github.com/karbo-project/walletnode/services/rpc"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
)

func newTestRemoteNode(t *testing.T) (*RemoteNode, *rpc.Mock) {
	t.Helper()

	tSettings := &settings.Settings{
		Daemon: settings.DaemonSettings{
			Host:              "localhost",
			Port:              32348,
			RPCTimeout:        time.Second,
			StatsPollInterval: 10 * time.Millisecond,
		},
	}

	n := NewRemoteNode(ulogger.TestLogger{}, tSettings)

	clientMock := rpc.NewMock()
	n.client = clientMock

	return n, clientMock
}

func TestRemoteNodeType(t *testing.T) {
	n, _ := newTestRemoteNode(t)
	assert.Equal(t, TypeRemote, n.Type())
	assert.Equal(t, "remote", n.Type().String())
}

func TestRemoteNodeStats(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	clientMock.On("GetInfo", mock.Anything).Return(&rpc.GetInfoResponse{
		Status:                   rpc.StatusOK,
		Height:                   365000,
		LastKnownBlockIndex:      365100,
		LastBlockTimestamp:       1700000000,
		Difficulty:               123456,
		TxCount:                  500123,
		TxPoolSize:               7,
		AltBlocksCount:           2,
		OutgoingConnectionsCount: 8,
		IncomingConnectionsCount: 3,
		WhitePeerlistSize:        120,
		GreyPeerlistSize:         400,
		MinimalFee:               100000,
		FeeAddress:               "KaFeeAddress",
		FeeAmount:                250,
		AlreadyGeneratedCoins:    9000000,
		NextReward:               13000,
		BlockMajorVersion:        4,
	}, nil)

	n.refreshStats(context.Background())

	assert.Equal(t, uint32(365000), n.LastLocalBlockHeight())
	assert.Equal(t, uint32(365100), n.LastKnownBlockHeight())
	assert.Equal(t, uint64(1700000000), n.LastLocalBlockTimestamp())
	assert.Equal(t, uint64(123456), n.Difficulty())
	assert.Equal(t, uint64(500123), n.TxCount())
	assert.Equal(t, uint64(7), n.TxPoolSize())
	assert.Equal(t, uint64(2), n.AltBlocksCount())
	assert.Equal(t, 11, n.PeerCount())
	assert.Equal(t, 11, n.ConnectionsCount())
	assert.Equal(t, 8, n.OutgoingConnectionsCount())
	assert.Equal(t, 3, n.IncomingConnectionsCount())
	assert.Equal(t, 120, n.WhitePeerlistSize())
	assert.Equal(t, 400, n.GreyPeerlistSize())
	assert.Equal(t, uint64(100000), n.MinimalFee())
	assert.Equal(t, "KaFeeAddress", n.FeeAddress())
	assert.Equal(t, uint64(250), n.FeeAmount())
	assert.Equal(t, uint64(9000000), n.AlreadyGeneratedCoins())
	assert.Equal(t, uint64(13000), n.NextReward())
	assert.Equal(t, uint8(4), n.CurrentBlockMajorVersion())
}

func TestRemoteNodeObserverEvents(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	observer := NewMockObserver()
	n.AddObserver(observer)

	clientMock.On("GetInfo", mock.Anything).Return(&rpc.GetInfoResponse{
		Status:                   rpc.StatusOK,
		Height:                   100,
		LastKnownBlockIndex:      200,
		OutgoingConnectionsCount: 5,
	}, nil).Once()

	n.refreshStats(context.Background())

	peerCounts, localHeights, knownHeights, connectivity := observer.Snapshot()
	assert.Equal(t, []int{5}, peerCounts)
	assert.Equal(t, []uint32{100}, localHeights)
	assert.Equal(t, []uint32{200}, knownHeights)
	assert.Equal(t, []bool{true}, connectivity)

	// unchanged snapshot fires no height or peer events
	clientMock.On("GetInfo", mock.Anything).Return(&rpc.GetInfoResponse{
		Status:                   rpc.StatusOK,
		Height:                   100,
		LastKnownBlockIndex:      200,
		OutgoingConnectionsCount: 5,
	}, nil).Once()

	n.refreshStats(context.Background())

	peerCounts, localHeights, knownHeights, connectivity = observer.Snapshot()
	assert.Equal(t, []int{5}, peerCounts)
	assert.Equal(t, []uint32{100}, localHeights)
	assert.Equal(t, []uint32{200}, knownHeights)
	assert.Equal(t, []bool{true}, connectivity)
}

func TestRemoteNodeConnectivityFlip(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	observer := NewMockObserver()
	n.AddObserver(observer)

	clientMock.On("GetInfo", mock.Anything).Return(nil, errors.NewConnectionError("daemon down")).Once()
	n.refreshStats(context.Background())

	clientMock.On("GetInfo", mock.Anything).Return(&rpc.GetInfoResponse{Status: rpc.StatusOK}, nil).Once()
	n.refreshStats(context.Background())

	clientMock.On("GetInfo", mock.Anything).Return(nil, errors.NewConnectionError("daemon down")).Once()
	n.refreshStats(context.Background())

	_, _, _, connectivity := observer.Snapshot()
	assert.Equal(t, []bool{true, false}, connectivity)
}

func TestRemoteNodeGetBlockTemplate(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	req := &model.BlockTemplateRequest{ExtraNonce: []byte{0x00, 0xff}}

	t.Run("success", func(t *testing.T) {
		clientMock.On("GetBlockTemplate", mock.Anything, mock.Anything).Return(&rpc.GetBlockTemplateResponse{
			Status:            rpc.StatusOK,
			BlocktemplateBlob: "0102abcd",
			Difficulty:        5000,
			Height:            365001,
		}, nil).Once()

		tmpl, ok := n.GetBlockTemplate(context.Background(), req)
		require.True(t, ok)
		assert.Equal(t, []byte{0x01, 0x02, 0xab, 0xcd}, tmpl.Blob)
		assert.Equal(t, uint64(5000), tmpl.Difficulty)
		assert.Equal(t, uint32(365001), tmpl.Height)
	})

	t.Run("busy daemon", func(t *testing.T) {
		clientMock.On("GetBlockTemplate", mock.Anything, mock.Anything).Return(&rpc.GetBlockTemplateResponse{
			Status: rpc.StatusBusy,
		}, nil).Once()

		tmpl, ok := n.GetBlockTemplate(context.Background(), req)
		assert.False(t, ok)
		assert.Nil(t, tmpl)
	})

	t.Run("connection failure", func(t *testing.T) {
		clientMock.On("GetBlockTemplate", mock.Anything, mock.Anything).Return(nil, errors.NewConnectionError("daemon down")).Once()

		tmpl, ok := n.GetBlockTemplate(context.Background(), req)
		assert.False(t, ok)
		assert.Nil(t, tmpl)
	})

	t.Run("malformed blob", func(t *testing.T) {
		clientMock.On("GetBlockTemplate", mock.Anything, mock.Anything).Return(&rpc.GetBlockTemplateResponse{
			Status:            rpc.StatusOK,
			BlocktemplateBlob: "not-hex",
		}, nil).Once()

		tmpl, ok := n.GetBlockTemplate(context.Background(), req)
		assert.False(t, ok)
		assert.Nil(t, tmpl)
	})
}

func TestRemoteNodeHandleBlockFound(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	tmpl := &model.BlockTemplate{Blob: []byte{0x01, 0x02}}

	t.Run("accepted", func(t *testing.T) {
		clientMock.On("SubmitBlock", mock.Anything, "0102").Return(&rpc.StatusResponse{Status: rpc.StatusOK}, nil).Once()
		assert.True(t, n.HandleBlockFound(context.Background(), tmpl))
	})

	t.Run("rejected", func(t *testing.T) {
		clientMock.On("SubmitBlock", mock.Anything, "0102").Return(&rpc.StatusResponse{Status: "Block not accepted"}, nil).Once()
		assert.False(t, n.HandleBlockFound(context.Background(), tmpl))
	})
}

func TestRemoteNodeGetBlockLongHash(t *testing.T) {
	n, _ := newTestRemoteNode(t)

	hash, ok := n.GetBlockLongHash(context.Background(), []byte{0x01})
	assert.False(t, ok)
	assert.Nil(t, hash)
}

func TestRemoteNodeGetConnections(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	clientMock.On("GetConnections", mock.Anything).Return(&rpc.GetConnectionsResponse{
		Status: rpc.StatusOK,
		Connections: []rpc.ConnectionInfo{
			{PeerID: "abc", Address: "1.2.3.4:32347", Incoming: true, State: "synchronizing"},
			{PeerID: "def", Address: "5.6.7.8:32347", Incoming: false, State: "normal"},
		},
	}, nil)

	records := n.GetConnections(context.Background())
	require.Len(t, records, 2)
	assert.Equal(t, "abc", records[0].PeerID)
	assert.True(t, records[0].Incoming)
	assert.Equal(t, "5.6.7.8:32347", records[1].Address)
	assert.False(t, records[1].Incoming)
}

func TestRemoteNodeRunStops(t *testing.T) {
	n, clientMock := newTestRemoteNode(t)

	clientMock.On("GetInfo", mock.Anything).Return(&rpc.GetInfoResponse{Status: rpc.StatusOK}, nil)

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
}
