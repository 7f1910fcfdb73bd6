package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointDigestRoundTripText(t *testing.T) {
	d := RandomCheckpointDigest()

	parsed, err := ParseCheckpointDigest(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	var decoded CheckpointDigest
	require.NoError(t, decoded.UnmarshalText([]byte(d.String())))
	assert.Equal(t, d, decoded)

	_, err = ParseCheckpointDigest("0")
	assert.Error(t, err)
}

func TestCheckpointDigestZero(t *testing.T) {
	var def CheckpointDigest

	assert.Equal(t, ZeroCheckpointDigest, def)
	assert.Equal(t, make([]byte, SizeDigest), ZeroCheckpointDigest.Bytes())
}

func TestCheckpointDigestRoundTripBinary(t *testing.T) {
	d := RandomCheckpointDigest()

	buf, err := d.MarshalBinary()
	require.NoError(t, err)

	var decoded CheckpointDigest
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, d, decoded)
}

func TestCheckpointContentsDigestRoundTripBinary(t *testing.T) {
	d := RandomCheckpointContentsDigest()

	buf, err := d.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, SizeDigest)

	var decoded CheckpointContentsDigest
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, d, decoded)

	assert.Error(t, decoded.UnmarshalBinary(buf[1:]))
}

func TestCheckpointContentsDigestRenders(t *testing.T) {
	d := RandomCheckpointContentsDigest()

	assert.Equal(t, Digest(d).String(), d.String())
	assert.Equal(t, Digest(d).Hex(), d.Hex())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, d.String(), string(text))
}

func TestCheckpointDigestsDistinct(t *testing.T) {
	a := SumCheckpointDigest([]byte("epoch 1"))
	b := SumCheckpointContentsDigest([]byte("epoch 1"))

	// Same hash over the same payload; only the types differ.
	assert.Equal(t, a.Bytes(), b.Bytes())
}
