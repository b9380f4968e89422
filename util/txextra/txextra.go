// Package txextra reads and writes the transaction-extra binary encoding,
// a sequence of tagged fields appended to every transaction. Only the
// fields needed for payment identifiers are implemented here.
package txextra

import (
	"bytes"
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/karbo-project/walletnode/errors"
)

const (
	// TagPadding marks a run of zero bytes filling the rest of the field.
	TagPadding = 0x00

	// TagPubKey is followed by the 32-byte transaction public key.
	TagPubKey = 0x01

	// TagNonce is followed by a 1-byte length and that many payload bytes.
	TagNonce = 0x02

	// NoncePaymentID marks a nonce payload holding a 32-byte payment id.
	NoncePaymentID = 0x00

	// PaymentIDLen is the byte length of a payment identifier.
	PaymentIDLen = chainhash.HashSize

	maxNonceSize = 255
)

var nullPaymentID chainhash.Hash

// ParsePaymentID decodes a 64-character hex string into a payment id.
func ParsePaymentID(paymentIDStr string) (*chainhash.Hash, error) {
	b, err := hex.DecodeString(paymentIDStr)
	if err != nil || len(b) != PaymentIDLen {
		return nil, errors.NewInvalidPaymentIDError(
			"payment id has invalid format: %q, expected %d-character hex string", paymentIDStr, PaymentIDLen*2)
	}

	return chainhash.NewHash(b)
}

// SetPaymentIDToExtraNonce serializes a payment id into an extra-nonce payload.
func SetPaymentIDToExtraNonce(paymentID *chainhash.Hash) []byte {
	nonce := make([]byte, 0, 1+PaymentIDLen)
	nonce = append(nonce, NoncePaymentID)
	nonce = append(nonce, paymentID[:]...)

	return nonce
}

// AppendExtraNonce appends a nonce field to the given extra blob. The wire
// format caps a nonce payload at 255 bytes.
func AppendExtraNonce(extra, nonce []byte) ([]byte, error) {
	if len(nonce) > maxNonceSize {
		return nil, errors.NewTxExtraError("extra nonce is %d bytes, maximum is %d", len(nonce), maxNonceSize)
	}

	out := make([]byte, 0, len(extra)+2+len(nonce))
	out = append(out, extra...)
	out = append(out, TagNonce, byte(len(nonce)))
	out = append(out, nonce...)

	return out, nil
}

// ConvertPaymentID turns a user-supplied payment id string into the
// transaction-extra bytes embedding it. An empty input yields empty output
// without touching the encoder.
func ConvertPaymentID(paymentIDStr string) ([]byte, error) {
	if paymentIDStr == "" {
		return nil, nil
	}

	paymentID, err := ParsePaymentID(paymentIDStr)
	if err != nil {
		return nil, err
	}

	extra, err := AppendExtraNonce(nil, SetPaymentIDToExtraNonce(paymentID))
	if err != nil {
		return nil, errors.NewTxExtraError("cannot embed payment id %q", paymentIDStr, err)
	}

	return extra, nil
}

// ExtractPaymentID walks the extra fields for an embedded payment id and
// returns it hex encoded. Absence, a malformed blob, or the all-zero
// sentinel all yield the empty string.
func ExtractPaymentID(extra []byte) string {
	nonce, ok := findExtraNonce(extra)
	if !ok {
		return ""
	}

	if len(nonce) != 1+PaymentIDLen || nonce[0] != NoncePaymentID {
		return ""
	}

	paymentID := nonce[1:]
	if bytes.Equal(paymentID, nullPaymentID[:]) {
		return ""
	}

	return hex.EncodeToString(paymentID)
}

func findExtraNonce(extra []byte) ([]byte, bool) {
	i := 0

	for i < len(extra) {
		switch extra[i] {
		case TagPadding:
			// padding fills the remainder, nothing follows
			return nil, false

		case TagPubKey:
			i += 1 + chainhash.HashSize

		case TagNonce:
			if i+1 >= len(extra) {
				return nil, false
			}

			n := int(extra[i+1])
			if i+2+n > len(extra) {
				return nil, false
			}

			return extra[i+2 : i+2+n], true

		default:
			// unknown tag, cannot skip an unknown length
			return nil, false
		}
	}

	return nil, false
}
