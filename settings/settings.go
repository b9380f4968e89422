package settings

import (
	"math"
	"time"

	"github.com/karbo-project/walletnode/chaincfg"
)

// NoRewind is the RewindToHeight sentinel meaning "do not rewind".
const NoRewind = uint32(math.MaxUint32)

func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		panic(err)
	}

	rewind := getInt("node_rewindToHeight", -1)

	rewindToHeight := NoRewind
	if rewind >= 0 {
		rewindToHeight = uint32(rewind)
	}

	dataDir, dataDirSet := getStringFound("chaindb_dataDir")
	if !dataDirSet {
		dataDir = "data/chaindb"
	}

	return &Settings{
		ClientName:     getString("clientName", "walletnode"),
		Testnet:        network == "testnet",
		ChainCfgParams: params,
		ChainDB: ChainDBSettings{
			Engine:            getString("chaindb_engine", "leveldb"),
			DataDir:           dataDir,
			UseDefaultDataDir: !dataDirSet,
		},
		Daemon: DaemonSettings{
			Host:              getString("daemon_host", "localhost"),
			Port:              getInt("daemon_port", 32348),
			UseSSL:            getBool("daemon_useSSL", false),
			RPCTimeout:        getDuration("daemon_rpcTimeout", 30*time.Second),
			StatsPollInterval: getDuration("daemon_statsPollInterval", 5*time.Second),
		},
		P2P: P2PSettings{
			ListenIP:    getString("p2p_ip", "0.0.0.0"),
			Port:        getInt("p2p_port", 32347),
			PrivateKey:  getString("p2p_private_key", ""),
			TopicPrefix: getString("p2p_topic_prefix", network),
			BlockTopic:  getString("p2p_block_topic", "blocks"),
			TxTopic:     getString("p2p_tx_topic", "txs"),
			StaticPeers: getMultiString("p2p_static_peers", "|"),
		},
		Node: NodeSettings{
			RewindToHeight: rewindToHeight,
			NoCheckpoints:  getBool("node_noCheckpoints", false),
			AllowReorg:     getBool("node_allowReorg", false),
		},
	}
}
