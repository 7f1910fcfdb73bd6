package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionEffectsDigestRoundTripBinary(t *testing.T) {
	d := RandomTransactionEffectsDigest()

	buf, err := d.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, SizeDigest)

	var decoded TransactionEffectsDigest
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, d, decoded)

	assert.Error(t, decoded.UnmarshalBinary(nil))
}

func TestTransactionEffectsDigestZero(t *testing.T) {
	var def TransactionEffectsDigest

	assert.Equal(t, ZeroTransactionEffectsDigest, def)
	assert.Equal(t, make([]byte, SizeDigest), ZeroTransactionEffectsDigest.Bytes())
}

func TestTransactionEffectsDigestRenders(t *testing.T) {
	d := RandomTransactionEffectsDigest()

	assert.Equal(t, Digest(d).String(), d.String())
	assert.Equal(t, Digest(d).Hex(), d.Hex())
	assert.Equal(t, Digest(d).HexUpper(), d.HexUpper())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, d.String(), string(text))
}

func TestTransactionEffectsDigestOrdering(t *testing.T) {
	a, b := RandomTransactionEffectsDigest(), RandomTransactionEffectsDigest()

	assert.Equal(t, Digest(a).Cmp(Digest(b)), a.Cmp(b))
}

func TestSumTransactionEffectsDigest(t *testing.T) {
	payload := []byte("effects of tx")

	assert.Equal(t, SumTransactionEffectsDigest(payload), SumTransactionEffectsDigest(payload))
	assert.NotEqual(t, ZeroTransactionEffectsDigest, SumTransactionEffectsDigest(payload))
}
