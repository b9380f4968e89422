package p2p

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
)

func testSettings() *settings.Settings {
	return &settings.Settings{
		ClientName: "walletnode-test",
		P2P: settings.P2PSettings{
			ListenIP:    "127.0.0.1",
			Port:        0,
			TopicPrefix: "testnet",
			BlockTopic:  "blocks",
			TxTopic:     "txs",
		},
	}
}

func TestTopicNames(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	assert.Equal(t, "testnet-blocks", server.BlockTopicName())
	assert.Equal(t, "testnet-txs", server.TxTopicName())

	names := server.topicNames()
	require.Len(t, names, 2)
	assert.Equal(t, "testnet-blocks", names[0])
	assert.Equal(t, "testnet-txs", names[1])
}

func TestSetTopicHandlerBeforeStart(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	handler := func(ctx context.Context, msg []byte, from string) {}

	// registration is accepted before gossipsub is up, the subscription
	// happens when the topic is joined
	require.NoError(t, server.SetTopicHandler(context.Background(), server.BlockTopicName(), handler))

	err := server.SetTopicHandler(context.Background(), server.BlockTopicName(), handler)
	require.Error(t, err)

	err = server.SetTopicHandler(context.Background(), "testnet-bogus", handler)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestPublishBeforeStart(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	err := server.Publish(context.Background(), server.BlockTopicName(), []byte{0x01})
	require.Error(t, err)
}

func TestStartBeforeInit(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	err := server.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrServiceNotStarted))
}

func TestCountsWithoutHost(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	assert.Equal(t, 0, server.ConnectionCount())
	assert.Equal(t, 0, server.OutgoingConnectionCount())
	assert.Nil(t, server.Connections())
}

func TestPeerlistPromotion(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	server.markGrey("peer-a")
	server.markGrey("peer-b")
	assert.Equal(t, 2, server.GreyPeerlistSize())
	assert.Equal(t, 0, server.WhitePeerlistSize())

	server.promotePeer("peer-a")
	assert.Equal(t, 1, server.GreyPeerlistSize())
	assert.Equal(t, 1, server.WhitePeerlistSize())

	// a white peer is never demoted back to grey
	server.markGrey("peer-a")
	assert.Equal(t, 1, server.GreyPeerlistSize())
	assert.Equal(t, 1, server.WhitePeerlistSize())
}

func TestPeerCountCallback(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	var got []int

	server.SetPeerCountCallback(func(count int) {
		got = append(got, count)
	})

	server.notifyPeerCount()
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0])
}

func TestInitAndStop(t *testing.T) {
	server := NewServer(ulogger.TestLogger{}, testSettings())

	tSettings := server.settings
	tSettings.P2P.PrivateKey = "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f2079b5562e8fe654f94078b112e8a98ba7901f853ae695bed7e0e3910bad049664"

	err := server.Init(context.Background())
	require.NoError(t, err)
	require.NotNil(t, server.host)

	assert.Equal(t, 0, server.ConnectionCount())

	err = server.Stop(context.Background())
	require.NoError(t, err)

	// Stop is idempotent
	err = server.Stop(context.Background())
	require.NoError(t, err)
}

func TestDecodePrivateKey(t *testing.T) {
	_, err := decodeHexEd25519PrivateKey("not-hex")
	require.Error(t, err)

	_, err = decodeHexEd25519PrivateKey("abcd")
	require.Error(t, err)
}
