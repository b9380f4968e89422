// Package rpc implements the JSON-RPC client used to drive a remote daemon.
package rpc

import "context"

// ClientI is the daemon call surface consumed by the remote node adapter.
type ClientI interface {
	GetBlockTemplate(ctx context.Context, req *GetBlockTemplateRequest) (*GetBlockTemplateResponse, error)
	SubmitBlock(ctx context.Context, blockBlobHex string) (*StatusResponse, error)
	GetInfo(ctx context.Context) (*GetInfoResponse, error)
	GetConnections(ctx context.Context) (*GetConnectionsResponse, error)
}

type GetBlockTemplateRequest struct {
	MinerSpendKey string `json:"miner_spend_key"`
	MinerViewKey  string `json:"miner_view_key"`
	ExtraNonce    string `json:"extra_nonce,omitempty"`
}

type GetBlockTemplateResponse struct {
	Status            string `json:"status"`
	BlocktemplateBlob string `json:"blocktemplate_blob"`
	Difficulty        uint64 `json:"difficulty"`
	Height            uint32 `json:"height"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type GetInfoResponse struct {
	Status                   string `json:"status"`
	Height                   uint64 `json:"height"`
	LastKnownBlockIndex      uint64 `json:"last_known_block_index"`
	LastBlockTimestamp       uint64 `json:"last_block_timestamp"`
	Difficulty               uint64 `json:"difficulty"`
	TxCount                  uint64 `json:"tx_count"`
	TxPoolSize               uint64 `json:"tx_pool_size"`
	AltBlocksCount           uint64 `json:"alt_blocks_count"`
	OutgoingConnectionsCount uint64 `json:"outgoing_connections_count"`
	IncomingConnectionsCount uint64 `json:"incoming_connections_count"`
	WhitePeerlistSize        uint64 `json:"white_peerlist_size"`
	GreyPeerlistSize         uint64 `json:"grey_peerlist_size"`
	MinimalFee               uint64 `json:"min_fee"`
	FeeAddress               string `json:"fee_address"`
	FeeAmount                uint64 `json:"fee_amount"`
	AlreadyGeneratedCoins    uint64 `json:"already_generated_coins"`
	NextReward               uint64 `json:"next_reward"`
	BlockMajorVersion        uint8  `json:"block_major_version"`
	TopBlockHash             string `json:"top_block_hash"`
}

type ConnectionInfo struct {
	PeerID   string `json:"peer_id"`
	Address  string `json:"address"`
	Incoming bool   `json:"incoming"`
	State    string `json:"state"`
}

type GetConnectionsResponse struct {
	Status      string           `json:"status"`
	Connections []ConnectionInfo `json:"connections"`
}
