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

package index

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func TestTransactionRecordRoundTrip(t *testing.T) {
	records := []TransactionRecord{
		{},
		{
			Digest:     sui.RandomTransactionDigest(),
			Effects:    sui.RandomTransactionEffectsDigest(),
			Events:     sui.RandomTransactionEventsDigest(),
			Checkpoint: 42,
		},
	}

	for _, rec := range records {
		decoded, err := UnmarshalTransactionRecord(bytes.NewReader(rec.Marshal()))
		require.NoError(t, err)
		assert.Equal(t, rec, decoded)
	}
}

func TestTransactionRecordTruncated(t *testing.T) {
	rec := TransactionRecord{
		Digest:  sui.RandomTransactionDigest(),
		Effects: sui.RandomTransactionEffectsDigest(),
		Events:  sui.RandomTransactionEventsDigest(),
	}

	buf := rec.Marshal()

	for _, n := range []int{0, sui.SizeDigest - 1, sui.SizeDigest, 2 * sui.SizeDigest, len(buf) - 1} {
		_, err := UnmarshalTransactionRecord(bytes.NewReader(buf[:n]))
		assert.Error(t, err)
	}
}

func TestObjectRecordAlive(t *testing.T) {
	digest := sui.RandomObjectDigest()

	live := ObjectRecord{Digest: digest, State: digest}
	assert.True(t, live.Alive())

	deleted := ObjectRecord{Digest: digest, State: sui.DeletedObjectDigest}
	assert.False(t, deleted.Alive())

	wrapped := ObjectRecord{Digest: digest, State: sui.WrappedObjectDigest}
	assert.False(t, wrapped.Alive())
}

func TestObjectRecordRoundTrip(t *testing.T) {
	digest := sui.RandomObjectDigest()

	records := []ObjectRecord{
		{Digest: digest, State: digest, Transaction: sui.RandomTransactionDigest(), Version: 3},
		{Digest: digest, State: sui.DeletedObjectDigest, Version: 9},
		{Digest: digest, State: sui.WrappedObjectDigest},
	}

	for _, rec := range records {
		decoded, err := UnmarshalObjectRecord(bytes.NewReader(rec.Marshal()))
		require.NoError(t, err)
		assert.Equal(t, rec, decoded)
		assert.Equal(t, rec.Alive(), decoded.Alive())
	}
}

func TestCheckpointRecordRoundTrip(t *testing.T) {
	records := []CheckpointRecord{
		{
			Sequence: 1,
			Digest:   sui.RandomCheckpointDigest(),
			Contents: sui.RandomCheckpointContentsDigest(),
			Transactions: []sui.TransactionDigest{
				sui.RandomTransactionDigest(),
				sui.RandomTransactionDigest(),
				sui.RandomTransactionDigest(),
			},
		},
		{
			Sequence:     7,
			Digest:       sui.RandomCheckpointDigest(),
			Contents:     sui.RandomCheckpointContentsDigest(),
			Transactions: []sui.TransactionDigest{},
		},
	}

	for _, rec := range records {
		decoded, err := UnmarshalCheckpointRecord(bytes.NewReader(rec.Marshal()))
		require.NoError(t, err)
		assert.Equal(t, rec, decoded)
	}
}

func TestCheckpointRecordRejectsOversizedCount(t *testing.T) {
	buf := make([]byte, 8+2*sui.SizeDigest+4)
	binary.BigEndian.PutUint32(buf[8+2*sui.SizeDigest:], sys.MaxCheckpointTransactions+1)

	_, err := UnmarshalCheckpointRecord(bytes.NewReader(buf))
	assert.Error(t, err)
}

func TestTransactionRecordJSON(t *testing.T) {
	rec := TransactionRecord{
		Digest:     sui.RandomTransactionDigest(),
		Effects:    sui.RandomTransactionEffectsDigest(),
		Events:     sui.RandomTransactionEventsDigest(),
		Checkpoint: 5,
	}

	var arena fastjson.Arena

	buf, err := rec.MarshalArena(&arena)
	require.NoError(t, err)

	var parser fastjson.Parser

	v, err := parser.ParseBytes(buf)
	require.NoError(t, err)

	var decoded TransactionRecord
	require.NoError(t, decoded.UnmarshalValue(v))
	assert.Equal(t, rec, decoded)
}

func TestObjectRecordJSON(t *testing.T) {
	digest := sui.RandomObjectDigest()

	for _, rec := range []ObjectRecord{
		{Digest: digest, State: digest, Transaction: sui.RandomTransactionDigest(), Version: 2},
		{Digest: digest, State: sui.DeletedObjectDigest, Transaction: sui.RandomTransactionDigest()},
	} {
		var arena fastjson.Arena

		buf, err := rec.MarshalArena(&arena)
		require.NoError(t, err)

		var parser fastjson.Parser

		v, err := parser.ParseBytes(buf)
		require.NoError(t, err)

		assert.Equal(t, rec.Alive(), v.GetBool("alive"))

		var decoded ObjectRecord
		require.NoError(t, decoded.UnmarshalValue(v))
		assert.Equal(t, rec, decoded)
	}
}

func TestObjectRecordJSONDefaultsState(t *testing.T) {
	digest := sui.RandomObjectDigest()
	tx := sui.RandomTransactionDigest()

	var parser fastjson.Parser

	v, err := parser.Parse(`{"digest": "` + digest.String() + `", "transaction": "` + tx.String() + `"}`)
	require.NoError(t, err)

	var decoded ObjectRecord
	require.NoError(t, decoded.UnmarshalValue(v))

	// A row submitted without a state digest is live.
	assert.Equal(t, digest, decoded.State)
	assert.True(t, decoded.Alive())
}

func TestCheckpointRecordJSON(t *testing.T) {
	rec := CheckpointRecord{
		Sequence: 3,
		Digest:   sui.RandomCheckpointDigest(),
		Contents: sui.RandomCheckpointContentsDigest(),
		Transactions: []sui.TransactionDigest{
			sui.RandomTransactionDigest(),
			sui.RandomTransactionDigest(),
		},
	}

	var arena fastjson.Arena

	buf, err := rec.MarshalArena(&arena)
	require.NoError(t, err)

	var parser fastjson.Parser

	v, err := parser.ParseBytes(buf)
	require.NoError(t, err)

	var decoded CheckpointRecord
	require.NoError(t, decoded.UnmarshalValue(v))
	assert.Equal(t, rec, decoded)
}
