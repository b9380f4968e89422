package model

import "github.com/bsv-blockchain/go-bt/v2/chainhash"

// BlockHeaderInfo describes the last block the node knows about locally.
type BlockHeaderInfo struct {
	Height       uint32
	Timestamp    uint64
	MajorVersion uint8
	MinorVersion uint8
	Hash         chainhash.Hash
	Difficulty   uint64
	Reward       uint64
}
