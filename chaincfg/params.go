package chaincfg

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/karbo-project/walletnode/errors"
)

// Checkpoint pins a known good block hash at a given height. Blocks below a
// pin cannot be reorganised away unless reorg is explicitly allowed.
type Checkpoint struct {
	Height uint32
	Hash   *chainhash.Hash
}

// Params holds the parameters that differ between chain deployments.
type Params struct {
	Name string

	// Net is the wire magic prepended to every p2p message.
	Net uint32

	// Checkpoints ordered from oldest to newest.
	Checkpoints []Checkpoint

	// CheckpointDNSSeed is queried for TXT records of the form
	// "height:hash" to augment the builtin checkpoint list. Empty means no
	// remote discovery.
	CheckpointDNSSeed string
}

func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}

	return hash
}

// MainNetParams defines the main network parameters.
var MainNetParams = Params{
	Name: "mainnet",
	Net:  0xe9f7d272,

	Checkpoints: []Checkpoint{
		{3436, newHashFromStr("098f6bcd4621d373cade4e832627b4f6cbf3779cbeab6451dbb5a1ec4c7eb682")},
		{20000, newHashFromStr("d34c8b559492ef8b10d4e7d04b9b7b8c9671536b7baac2fe2b5a1c2be2e1cf5a")},
		{55000, newHashFromStr("a4d2e9c11e22a5b057a346b2a77b8cb780b093615c2cfa3bce1e6a2cde13ea6b")},
		{96272, newHashFromStr("8e8547103b925c3e5432b86ffd337a9b63c41da6ea26b300ce3fbde15ac4aa11")},
		{173500, newHashFromStr("7e8a0bab857ee1c7e0b3c2d3aca7ed36b2329cb8ed9afff3449fd838e01a5c90")},
		{250720, newHashFromStr("e56f1a2b4db196b34898f0a709937c7b129d058a261c9e4e1af5bd316dbdb75f")},
		{402431, newHashFromStr("39a328d4ca1c9e61cfd046f7a1be191b2d3c0c31e28e9fd472fc30bd588b4d5c")},
	},

	CheckpointDNSSeed: "checkpoints.karbo.network",
}

// TestNetParams defines the test network parameters. Its checkpoint list is
// intentionally empty; the checkpoint loader skips pinning on testnet anyway.
var TestNetParams = Params{
	Name: "testnet",
	Net:  0x34e1c9b5,

	Checkpoints: nil,

	CheckpointDNSSeed: "",
}

func GetChainParams(network string) (*Params, error) {
	switch network {
	case "mainnet":
		return &MainNetParams, nil
	case "testnet":
		return &TestNetParams, nil
	}

	return nil, errors.NewConfigurationError("unknown network: %s", network)
}
