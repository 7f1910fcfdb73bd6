package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello"),
		{},
		make([]byte, 4096),
	}

	for _, payload := range payloads {
		sealed := seal(payload)

		opened, err := open(sealed)
		require.NoError(t, err)
		assert.Equal(t, payload, opened)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	sealed := seal([]byte("authentic"))

	// Flip a bit inside the compressed payload.
	sealed[len(sealed)-1] ^= 0x01

	_, err := open(sealed)
	assert.Equal(t, ErrChecksumMismatch, err)
}

func TestOpenRejectsTamperedChecksum(t *testing.T) {
	sealed := seal([]byte("authentic"))

	sealed[0] ^= 0x01

	_, err := open(sealed)
	assert.Equal(t, ErrChecksumMismatch, err)
}

func TestOpenRejectsShortBuffer(t *testing.T) {
	for _, buf := range [][]byte{nil, {0x1}, make([]byte, 7)} {
		_, err := open(buf)
		assert.Error(t, err)
		assert.NotEqual(t, ErrChecksumMismatch, err)
	}
}

func TestSealCompresses(t *testing.T) {
	payload := make([]byte, 1<<16)

	sealed := seal(payload)
	assert.Less(t, len(sealed), len(payload))
}
