package model

import "encoding/hex"

// BlockTemplateRequest carries the mining account's public key material and
// the extra-nonce blob reserved in the coinbase transaction.
type BlockTemplateRequest struct {
	SpendPublicKey PublicKey
	ViewPublicKey  PublicKey
	ExtraNonce     []byte
}

// BlockTemplate is a serialized candidate block together with the difficulty
// it must meet and the height it would be accepted at.
type BlockTemplate struct {
	Blob       []byte
	Difficulty uint64
	Height     uint32
}

func (b *BlockTemplate) BlobHex() string {
	return hex.EncodeToString(b.Blob)
}

func NewBlockTemplateFromHex(blobHex string, difficulty uint64, height uint32) (*BlockTemplate, error) {
	blob, err := hex.DecodeString(blobHex)
	if err != nil {
		return nil, err
	}

	return &BlockTemplate{
		Blob:       blob,
		Difficulty: difficulty,
		Height:     height,
	}, nil
}
