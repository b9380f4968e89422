package txextra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karbo-project/walletnode/errors"
)

func TestConvertExtractRoundTrip(t *testing.T) {
	ids := []string{
		"0000000000000000000000000000000000000000000000000000000000000001",
		"4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b",
		strings.Repeat("ff", 32),
		strings.Repeat("0a1b", 16),
	}

	for _, id := range ids {
		extra, err := ConvertPaymentID(id)
		require.NoError(t, err, id)
		require.NotEmpty(t, extra)

		assert.Equal(t, id, ExtractPaymentID(extra), id)
	}
}

func TestConvertEmptyInput(t *testing.T) {
	extra, err := ConvertPaymentID("")
	require.NoError(t, err)
	assert.Nil(t, extra)
}

func TestConvertInvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too short", "abcdef"},
		{"too long", strings.Repeat("ab", 33)},
		{"not hex", strings.Repeat("zz", 32)},
		{"odd length", strings.Repeat("a", 63)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extra, err := ConvertPaymentID(tt.id)
			require.Error(t, err)
			assert.Nil(t, extra)
			assert.True(t, errors.Is(err, errors.ErrInvalidPaymentID))
			assert.Contains(t, err.Error(), "64-character")
		})
	}
}

func TestExtractZeroSentinel(t *testing.T) {
	extra, err := AppendExtraNonce(nil, SetPaymentIDToExtraNonce(&nullPaymentID))
	require.NoError(t, err)

	assert.Equal(t, "", ExtractPaymentID(extra))
}

func TestExtractSkipsPubKeyField(t *testing.T) {
	id := "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

	nonceExtra, err := ConvertPaymentID(id)
	require.NoError(t, err)

	// pubkey field first, then the nonce field
	extra := make([]byte, 0, 33+len(nonceExtra))
	extra = append(extra, TagPubKey)
	extra = append(extra, make([]byte, 32)...)
	extra = append(extra, nonceExtra...)

	assert.Equal(t, id, ExtractPaymentID(extra))
}

func TestExtractMalformed(t *testing.T) {
	assert.Equal(t, "", ExtractPaymentID(nil))
	assert.Equal(t, "", ExtractPaymentID([]byte{TagNonce}))               // missing length
	assert.Equal(t, "", ExtractPaymentID([]byte{TagNonce, 10, 0x00}))     // truncated payload
	assert.Equal(t, "", ExtractPaymentID([]byte{0x7f, 0x01, 0x02}))       // unknown tag
	assert.Equal(t, "", ExtractPaymentID([]byte{TagPadding, 0, 0, 0, 0})) // padding only
}

func TestAppendExtraNonceTooLarge(t *testing.T) {
	_, err := AppendExtraNonce(nil, make([]byte, 256))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxExtraError))
}
