package model

import (
	"encoding/hex"

	"github.com/karbo-project/walletnode/errors"
)

// PublicKeyLen is the byte length of an account public key.
const PublicKeyLen = 32

type PublicKey [PublicKeyLen]byte

func NewPublicKeyFromHex(s string) (PublicKey, error) {
	var key PublicKey

	b, err := hex.DecodeString(s)
	if err != nil {
		return key, errors.NewInvalidArgumentError("invalid public key hex %q", s, err)
	}

	if len(b) != PublicKeyLen {
		return key, errors.NewInvalidArgumentError("invalid public key length %d, expected %d", len(b), PublicKeyLen)
	}

	copy(key[:], b)

	return key, nil
}

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

func (k PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeyLen)
	copy(b, k[:])

	return b
}
