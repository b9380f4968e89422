package settings

import (
	"time"

	"github.com/karbo-project/walletnode/chaincfg"
)

type ChainDBSettings struct {
	// Engine selects the embedded key-value store, "leveldb" or "badger".
	Engine string

	// DataDir is where the engine keeps its on-disk state. When
	// UseDefaultDataDir is set the directory is created on demand;
	// an explicitly configured directory must already exist.
	DataDir           string
	UseDefaultDataDir bool
}

type DaemonSettings struct {
	Host       string
	Port       int
	UseSSL     bool
	RPCTimeout time.Duration

	// StatsPollInterval is how often the remote adapter refreshes its
	// cached getinfo snapshot.
	StatsPollInterval time.Duration
}

type P2PSettings struct {
	ListenIP    string
	Port        int
	PrivateKey  string
	TopicPrefix string
	BlockTopic  string
	TxTopic     string
	StaticPeers []string
}

type NodeSettings struct {
	// RewindToHeight undoes recent blocks down to the given height before
	// the embedded node starts networking. NoRewind means disabled.
	RewindToHeight uint32

	NoCheckpoints bool
	AllowReorg    bool
}

type Settings struct {
	ClientName     string
	Testnet        bool
	ChainCfgParams *chaincfg.Params

	ChainDB ChainDBSettings
	Daemon  DaemonSettings
	P2P     P2PSettings
	Node    NodeSettings
}
