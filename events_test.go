package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionEventsDigestRoundTripBinary(t *testing.T) {
	d := RandomTransactionEventsDigest()

	buf, err := d.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, SizeDigest)

	var decoded TransactionEventsDigest
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, d, decoded)

	assert.Error(t, decoded.UnmarshalBinary(make([]byte, SizeDigest*2)))
}

func TestTransactionEventsDigestZero(t *testing.T) {
	var def TransactionEventsDigest

	assert.Equal(t, ZeroTransactionEventsDigest, def)
}

func TestTransactionEventsDigestString(t *testing.T) {
	var buf [SizeDigest]byte
	buf[0] = 1

	d := NewTransactionEventsDigest(buf)

	assert.Equal(t, Digest(d).String(), d.String())
	assert.NotEmpty(t, d.String())
}

func TestSumTransactionEventsDigest(t *testing.T) {
	payload := []byte("emitted events")

	assert.Equal(t, SumTransactionEventsDigest(payload), SumTransactionEventsDigest(payload))
	assert.NotEqual(t, ZeroTransactionEventsDigest, SumTransactionEventsDigest(payload))
}
