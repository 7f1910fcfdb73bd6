package api

import (
	"net/http"
	"testing"

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/index"
	"github.com/nisha7908/sui/sys"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestMsgResponseJSON(t *testing.T) {
	buf, err := (&MsgResponse{Message: "hello"}).MarshalArena(&fastjson.Arena{})
	assert.NoError(t, err)

	v, err := fastjson.ParseBytes(buf)
	assert.NoError(t, err)

	assert.Equal(t, "hello", string(v.GetStringBytes("msg")))
}

func TestErrResponseJSON(t *testing.T) {
	res := ErrBadRequest(errors.New("boom"))

	buf, err := res.MarshalArena(&fastjson.Arena{})
	assert.NoError(t, err)

	v, err := fastjson.ParseBytes(buf)
	assert.NoError(t, err)

	assert.Equal(t, http.StatusText(http.StatusBadRequest), string(v.GetStringBytes("status")))
	assert.Equal(t, "boom", string(v.GetStringBytes("error")))
}

func TestLedgerStatusResponseJSON(t *testing.T) {
	latest := index.CheckpointRecord{
		Sequence: 7,
		Digest:   sui.RandomCheckpointDigest(),
		Contents: sui.RandomCheckpointContentsDigest(),
		Transactions: []sui.TransactionDigest{
			sui.RandomTransactionDigest(),
			sui.RandomTransactionDigest(),
		},
	}

	res := &ledgerStatusResponse{
		transactions: 42,
		objects:      9,
		checkpoints:  7,
		live:         3,
		latest:       &latest,
	}

	buf, err := res.MarshalArena(&fastjson.Arena{})
	assert.NoError(t, err)

	v, err := fastjson.ParseBytes(buf)
	assert.NoError(t, err)

	assert.Equal(t, sys.Version, string(v.GetStringBytes("version")))
	assert.EqualValues(t, 42, v.GetUint64("num_transactions"))
	assert.EqualValues(t, 9, v.GetUint64("num_objects"))
	assert.EqualValues(t, 7, v.GetUint64("num_checkpoints"))
	assert.EqualValues(t, 3, v.GetUint64("num_live_objects"))

	assert.EqualValues(t, 7, v.GetUint64("latest_checkpoint", "seq"))
	assert.Equal(t, latest.Digest.String(), string(v.GetStringBytes("latest_checkpoint", "digest")))
	assert.EqualValues(t, 2, v.GetUint64("latest_checkpoint", "num_transactions"))
}

func TestPrefixMatchResponseJSON(t *testing.T) {
	digest := sui.RandomTransactionDigest()

	res := prefixMatchResponse(index.PrefixMatch{Digest: digest.String(), Kind: index.KindTransaction})

	buf, err := res.MarshalArena(&fastjson.Arena{})
	assert.NoError(t, err)

	v, err := fastjson.ParseBytes(buf)
	assert.NoError(t, err)

	assert.Equal(t, digest.String(), string(v.GetStringBytes("digest")))
	assert.Equal(t, index.KindTransaction, string(v.GetStringBytes("kind")))
}

func TestObjectListResponseJSON(t *testing.T) {
	digests := []sui.ObjectDigest{sui.RandomObjectDigest(), sui.RandomObjectDigest()}

	buf, err := (&objectListResponse{digests: digests}).MarshalArena(&fastjson.Arena{})
	assert.NoError(t, err)

	v, err := fastjson.ParseBytes(buf)
	assert.NoError(t, err)

	assert.EqualValues(t, 2, v.GetUint64("count"))

	items := v.GetArray("objects")
	assert.Len(t, items, 2)

	for i, item := range items {
		assert.Equal(t, digests[i].String(), string(item.GetStringBytes()))
	}
}
