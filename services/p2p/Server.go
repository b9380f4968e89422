package p2p

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/model"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
)

// Server wraps a libp2p host and gossipsub instance. Peers that completed a
// connection at least once are promoted from the grey list to the white
// list; addresses we only know about stay grey.
type Server struct {
	logger   ulogger.Logger
	settings *settings.Settings

	host   host.Host
	pubSub *pubsub.PubSub

	topicsMu       sync.Mutex
	topics         map[string]*pubsub.Topic
	handlerByTopic map[string]Handler

	peersMu    sync.Mutex
	whitePeers map[peer.ID]struct{}
	greyPeers  map[peer.ID]struct{}

	callbackMu        sync.Mutex
	peerCountCallback func(count int)

	stopCh    chan struct{}
	stopOnce  sync.Once
	startTime time.Time
}

var _ ServerI = (*Server)(nil)

func NewServer(logger ulogger.Logger, tSettings *settings.Settings) *Server {
	initPrometheusMetrics()

	return &Server{
		logger:         logger,
		settings:       tSettings,
		topics:         make(map[string]*pubsub.Topic),
		handlerByTopic: make(map[string]Handler),
		whitePeers:     make(map[peer.ID]struct{}),
		greyPeers:      make(map[peer.ID]struct{}),
		stopCh:         make(chan struct{}),
	}
}

func (s *Server) Init(_ context.Context) error {
	s.logger.Infof("[P2PServer] creating host")

	var (
		pk  *crypto.PrivKey
		err error
	)

	if s.settings.P2P.PrivateKey == "" {
		privateKeyFilename := fmt.Sprintf("%s.p2p.private_key", s.settings.ClientName)

		pk, err = readPrivateKey(privateKeyFilename)
		if err != nil {
			pk, err = generatePrivateKey(privateKeyFilename)
			if err != nil {
				return errors.NewConfigurationError("[P2PServer] error generating private key", err)
			}
		}
	} else {
		pk, err = decodeHexEd25519PrivateKey(s.settings.P2P.PrivateKey)
		if err != nil {
			return errors.NewInvalidArgumentError("[P2PServer] error decoding private key", err)
		}
	}

	h, err := libp2p.New(
		libp2p.ListenAddrStrings(fmt.Sprintf("/ip4/%s/tcp/%d", s.settings.P2P.ListenIP, s.settings.P2P.Port)),
		libp2p.Identity(*pk),
	)
	if err != nil {
		return errors.NewServiceError("[P2PServer] error creating libp2p host", err)
	}

	s.host = h
	s.startTime = time.Now()

	s.logger.Infof("[P2PServer] peer ID: %s", h.ID().String())

	for _, addr := range h.Addrs() {
		s.logger.Infof("[P2PServer]   %s/p2p/%s", addr, h.ID().String())
	}

	h.Network().Notify(&network.NotifyBundle{
		ConnectedF: func(n network.Network, conn network.Conn) {
			s.logger.Debugf("[P2PServer] peer connected: %s", conn.RemotePeer().String())
			s.promotePeer(conn.RemotePeer())
			s.notifyPeerCount()
		},
		DisconnectedF: func(n network.Network, conn network.Conn) {
			s.logger.Debugf("[P2PServer] peer disconnected: %s", conn.RemotePeer().String())
			s.notifyPeerCount()
		},
	})

	return nil
}

// Start joins the configured topics and blocks until the context is
// cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s.host == nil {
		return errors.NewServiceNotStartedError("[P2PServer] Init has not been called")
	}

	s.logger.Infof("[P2PServer] starting")

	if err := s.initGossipSub(ctx); err != nil {
		return err
	}

	s.startStaticPeerConnector(ctx)

	select {
	case <-ctx.Done():
	case <-s.stopCh:
	}

	s.logger.Infof("[P2PServer] run loop finished")

	return nil
}

func (s *Server) Stop(_ context.Context) error {
	s.logger.Infof("[P2PServer] stopping")

	s.stopOnce.Do(func() {
		close(s.stopCh)
	})

	if s.host != nil {
		return s.host.Close()
	}

	return nil
}

func (s *Server) BlockTopicName() string {
	return fmt.Sprintf("%s-%s", s.settings.P2P.TopicPrefix, s.settings.P2P.BlockTopic)
}

func (s *Server) TxTopicName() string {
	return fmt.Sprintf("%s-%s", s.settings.P2P.TopicPrefix, s.settings.P2P.TxTopic)
}

func (s *Server) topicNames() []string {
	return []string{
		s.BlockTopicName(),
		s.TxTopicName(),
	}
}

func (s *Server) initGossipSub(ctx context.Context) error {
	ps, err := pubsub.NewGossipSub(ctx, s.host,
		pubsub.WithMessageSignaturePolicy(pubsub.StrictSign))
	if err != nil {
		return errors.NewServiceError("[P2PServer] error creating gossipsub", err)
	}

	s.pubSub = ps

	s.topicsMu.Lock()
	defer s.topicsMu.Unlock()

	for _, topicName := range s.topicNames() {
		topic, err := ps.Join(topicName)
		if err != nil {
			return errors.NewServiceError("[P2PServer] error joining topic %s", topicName, err)
		}

		s.logger.Infof("[P2PServer] joined topic: %s", topicName)

		s.topics[topicName] = topic

		if handler, ok := s.handlerByTopic[topicName]; ok {
			if err := s.subscribeTopic(ctx, topicName, topic, handler); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Server) SetTopicHandler(ctx context.Context, topicName string, handler Handler) error {
	known := false

	for _, name := range s.topicNames() {
		if name == topicName {
			known = true
			break
		}
	}

	if !known {
		return errors.NewInvalidArgumentError("[P2PServer][SetTopicHandler] unknown topic: %s", topicName)
	}

	s.topicsMu.Lock()
	defer s.topicsMu.Unlock()

	if _, ok := s.handlerByTopic[topicName]; ok {
		return errors.NewServiceError("[P2PServer][SetTopicHandler] handler already exists for topic: %s", topicName)
	}

	s.handlerByTopic[topicName] = handler

	// before Start the topic is not joined yet, initGossipSub picks the
	// handler up once it joins
	topic, ok := s.topics[topicName]
	if !ok {
		return nil
	}

	return s.subscribeTopic(ctx, topicName, topic, handler)
}

// subscribeTopic is called with topicsMu held.
func (s *Server) subscribeTopic(ctx context.Context, topicName string, topic *pubsub.Topic, handler Handler) error {
	sub, err := topic.Subscribe()
	if err != nil {
		return errors.NewServiceError("[P2PServer] subscribe error for topic %s", topicName, err)
	}

	go func() {
		s.logger.Infof("[P2PServer] starting handler for topic: %s", topicName)

		for {
			select {
			case <-ctx.Done():
				s.logger.Infof("[P2PServer] handler for topic %s shutting down", topicName)
				return
			default:
				m, err := sub.Next(ctx)
				if err != nil {
					s.logger.Errorf("[P2PServer] error getting msg from %s topic: %v", topicName, err)
					continue
				}

				prometheusP2PMessagesReceived.WithLabelValues(topicName).Inc()
				s.logger.Debugf("[P2PServer] topic: %s - from: %s - message: %s\n", *m.Message.Topic, m.ReceivedFrom.ShortString(), strings.TrimSpace(string(m.Message.Data)))
				handler(ctx, m.Data, m.ReceivedFrom.String())
			}
		}
	}()

	return nil
}

func (s *Server) Publish(ctx context.Context, topicName string, msgBytes []byte) error {
	s.topicsMu.Lock()
	topic, ok := s.topics[topicName]
	s.topicsMu.Unlock()

	if !ok {
		return errors.NewServiceError("[P2PServer][Publish] topic not found: %s", topicName)
	}

	if err := topic.Publish(ctx, msgBytes); err != nil {
		return errors.NewServiceError("[P2PServer][Publish] publish error", err)
	}

	prometheusP2PMessagesSent.WithLabelValues(topicName).Inc()

	return nil
}

func (s *Server) startStaticPeerConnector(ctx context.Context) {
	if len(s.settings.P2P.StaticPeers) == 0 {
		s.logger.Infof("[P2PServer] no static peers to connect to - skipping connection attempt")
		return
	}

	go func() {
		logged := false

		for {
			select {
			case <-ctx.Done():
				s.logger.Infof("[P2PServer] static peer connector shutting down")
				return
			case <-s.stopCh:
				return
			default:
				allConnected := s.connectToStaticPeers(ctx, s.settings.P2P.StaticPeers)
				if allConnected {
					if !logged {
						s.logger.Infof("[P2PServer] all static peers connected")
					}

					logged = true

					time.Sleep(30 * time.Second)
				} else {
					logged = false

					s.logger.Infof("[P2PServer] all static peers NOT connected")

					time.Sleep(5 * time.Second)
				}
			}
		}
	}()
}

func (s *Server) connectToStaticPeers(ctx context.Context, staticPeers []string) bool {
	i := len(staticPeers)

	for _, peerAddr := range staticPeers {
		peerInfo, err := peer.AddrInfoFromP2pAddr(multiaddr.StringCast(peerAddr))
		if err != nil {
			s.logger.Errorf("[P2PServer] failed to get peerInfo from %s: %v", peerAddr, err)
			continue
		}

		s.markGrey(peerInfo.ID)

		if s.host.Network().Connectedness(peerInfo.ID) == network.Connected {
			i--
			continue
		}

		err = s.host.Connect(ctx, *peerInfo)
		if err != nil {
			s.logger.Debugf("[P2PServer] failed to connect to static peer %s: %v", peerAddr, err)
		} else {
			i--

			s.logger.Infof("[P2PServer] connected to static peer: %s", peerAddr)
		}
	}

	return i == 0
}

func (s *Server) markGrey(id peer.ID) {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()

	if _, ok := s.whitePeers[id]; !ok {
		s.greyPeers[id] = struct{}{}
	}
}

func (s *Server) promotePeer(id peer.ID) {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()

	delete(s.greyPeers, id)
	s.whitePeers[id] = struct{}{}
}

func (s *Server) notifyPeerCount() {
	count := s.ConnectionCount()

	prometheusP2PConnections.Set(float64(count))

	s.callbackMu.Lock()
	fn := s.peerCountCallback
	s.callbackMu.Unlock()

	if fn != nil {
		fn(count)
	}
}

func (s *Server) SetPeerCountCallback(fn func(count int)) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()

	s.peerCountCallback = fn
}

func (s *Server) ConnectionCount() int {
	if s.host == nil {
		return 0
	}

	return len(s.host.Network().Conns())
}

func (s *Server) OutgoingConnectionCount() int {
	if s.host == nil {
		return 0
	}

	count := 0

	for _, conn := range s.host.Network().Conns() {
		if conn.Stat().Direction == network.DirOutbound {
			count++
		}
	}

	return count
}

func (s *Server) WhitePeerlistSize() int {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()

	return len(s.whitePeers)
}

func (s *Server) GreyPeerlistSize() int {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()

	return len(s.greyPeers)
}

func (s *Server) Connections() []model.ConnectionRecord {
	if s.host == nil {
		return nil
	}

	conns := s.host.Network().Conns()
	records := make([]model.ConnectionRecord, 0, len(conns))

	for _, conn := range conns {
		records = append(records, model.ConnectionRecord{
			PeerID:   conn.RemotePeer().String(),
			Address:  conn.RemoteMultiaddr().String(),
			Incoming: conn.Stat().Direction == network.DirInbound,
			State:    "connected",
		})
	}

	return records
}

func generatePrivateKey(privateKeyFilename string) (*crypto.PrivKey, error) {
	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, err
	}

	privBytes, err := crypto.MarshalPrivateKey(priv)
	if err != nil {
		return nil, err
	}

	err = os.WriteFile(privateKeyFilename, privBytes, 0600)
	if err != nil {
		return nil, err
	}

	return &priv, nil
}

func readPrivateKey(privateKeyFilename string) (*crypto.PrivKey, error) {
	privBytes, err := os.ReadFile(privateKeyFilename)
	if err != nil {
		return nil, err
	}

	priv, err := crypto.UnmarshalPrivateKey(privBytes)
	if err != nil {
		return nil, err
	}

	return &priv, nil
}

func decodeHexEd25519PrivateKey(hexEncodedPrivateKey string) (*crypto.PrivKey, error) {
	privKeyBytes, err := hex.DecodeString(hexEncodedPrivateKey)
	if err != nil {
		return nil, err
	}

	privKey, err := crypto.UnmarshalEd25519PrivateKey(privKeyBytes)
	if err != nil {
		return nil, err
	}

	return &privKey, nil
}
