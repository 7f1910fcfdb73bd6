// Copyright (c) 2019 Perlin
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package sui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectDigestSentinels(t *testing.T) {
	assert.Equal(t, bytes.Repeat([]byte{ObjectDigestDeletedByte}, SizeDigest), DeletedObjectDigest.Bytes())
	assert.Equal(t, bytes.Repeat([]byte{ObjectDigestWrappedByte}, SizeDigest), WrappedObjectDigest.Bytes())
	assert.Equal(t, make([]byte, SizeDigest), MinObjectDigest.Bytes())
	assert.Equal(t, bytes.Repeat([]byte{0xff}, SizeDigest), MaxObjectDigest.Bytes())

	sentinels := []ObjectDigest{DeletedObjectDigest, WrappedObjectDigest, MinObjectDigest, MaxObjectDigest}
	for i := range sentinels {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestObjectDigestIsAlive(t *testing.T) {
	assert.False(t, DeletedObjectDigest.IsAlive())
	assert.False(t, WrappedObjectDigest.IsAlive())

	assert.True(t, MinObjectDigest.IsAlive())
	assert.True(t, MaxObjectDigest.IsAlive())
	assert.True(t, RandomObjectDigest().IsAlive())
}

func TestObjectDigestBounds(t *testing.T) {
	d := RandomObjectDigest()

	// MIN and MAX bracket every digest, tombstones included.
	assert.True(t, MinObjectDigest.Cmp(d) <= 0)
	assert.True(t, d.Cmp(MaxObjectDigest) <= 0)
	assert.Equal(t, -1, MinObjectDigest.Cmp(MaxObjectDigest))

	assert.Equal(t, -1, MinObjectDigest.Cmp(DeletedObjectDigest))
	assert.Equal(t, 1, MaxObjectDigest.Cmp(DeletedObjectDigest))
	assert.Equal(t, -1, MinObjectDigest.Cmp(WrappedObjectDigest))
	assert.Equal(t, 1, MaxObjectDigest.Cmp(WrappedObjectDigest))

	// The tombstone fills order relative to each other: 0x63 > 0x58.
	assert.Equal(t, 1, DeletedObjectDigest.Cmp(WrappedObjectDigest))
}

func TestObjectDigestFromBytes(t *testing.T) {
	d := RandomObjectDigest()

	decoded, err := ObjectDigestFromBytes(d.Bytes())
	require.NoError(t, err)
	assert.Equal(t, d, decoded)

	// Length mismatches surface the same sentinel as transaction digests.
	decoded, err = ObjectDigestFromBytes(make([]byte, SizeDigest/2))
	assert.Equal(t, ErrInvalidTransactionDigest, errors.Cause(err))
	assert.Equal(t, MinObjectDigest, decoded)
}

func TestObjectDigestRoundTripText(t *testing.T) {
	d := RandomObjectDigest()

	parsed, err := ParseObjectDigest(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	var decoded ObjectDigest
	require.NoError(t, decoded.UnmarshalText([]byte(d.String())))
	assert.Equal(t, d, decoded)

	_, err = ParseObjectDigest(strings.Repeat("1", 4))
	assert.Error(t, err)
}

func TestObjectDigestGoString(t *testing.T) {
	d := RandomObjectDigest()

	assert.Equal(t, "o#"+d.Base58(), d.GoString())
	assert.Equal(t, "o#"+d.Base58(), fmt.Sprintf("%#v", d))
}

func TestObjectDigestTombstonesSurviveCodec(t *testing.T) {
	for _, d := range []ObjectDigest{DeletedObjectDigest, WrappedObjectDigest} {
		buf, err := d.MarshalBinary()
		require.NoError(t, err)

		var decoded ObjectDigest
		require.NoError(t, decoded.UnmarshalBinary(buf))

		assert.Equal(t, d, decoded)
		assert.False(t, decoded.IsAlive())

		parsed, err := ParseObjectDigest(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}
