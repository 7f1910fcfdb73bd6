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
	"io"

	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/log"
	"github.com/nisha7908/sui/sys"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"
)

// TransactionRecord is what the index knows about a single executed
// transaction: the digests of its effects and emitted events, and the
// sequence of the checkpoint that sealed it. Checkpoint sequences
// start at 1; zero marks a transaction no checkpoint has sealed yet.
type TransactionRecord struct {
	Digest     sui.TransactionDigest
	Effects    sui.TransactionEffectsDigest
	Events     sui.TransactionEventsDigest
	Checkpoint uint64
}

func (r TransactionRecord) Marshal() []byte {
	w := bytes.NewBuffer(make([]byte, 0, 3*sui.SizeDigest+8))

	w.Write(r.Digest.Bytes())
	w.Write(r.Effects.Bytes())

	events, _ := r.Events.MarshalBinary()
	w.Write(events)

	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], r.Checkpoint)
	w.Write(buf[:8])

	return w.Bytes()
}

func UnmarshalTransactionRecord(r io.Reader) (TransactionRecord, error) {
	var rec TransactionRecord

	var buf [sui.SizeDigest]byte

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode transaction digest")
	}

	rec.Digest = sui.NewTransactionDigest(buf)

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode effects digest")
	}

	rec.Effects = sui.NewTransactionEffectsDigest(buf)

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode events digest")
	}

	rec.Events = sui.NewTransactionEventsDigest(buf)

	var seq [8]byte

	if _, err := io.ReadFull(r, seq[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode checkpoint sequence")
	}

	rec.Checkpoint = binary.BigEndian.Uint64(seq[:])

	return rec, nil
}

func (r TransactionRecord) MarshalEvent(ev *zerolog.Event) {
	ev.Str("digest", r.Digest.String())
	ev.Str("effects", r.Effects.String())
	ev.Str("events", r.Events.String())
	ev.Uint64("checkpoint", r.Checkpoint)
	ev.Msg("Indexed transaction.")
}

func (r TransactionRecord) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	return log.MarshalObjectBatch(arena,
		"digest", r.Digest.String(),
		"effects", r.Effects.String(),
		"events", r.Events.String(),
		"checkpoint", r.Checkpoint,
	)
}

func (r *TransactionRecord) UnmarshalValue(v *fastjson.Value) error {
	var buf [sui.SizeDigest]byte

	if err := log.ValueBase58(v, buf[:], "digest"); err != nil {
		return err
	}

	r.Digest = sui.NewTransactionDigest(buf)

	if err := log.ValueBase58(v, buf[:], "effects"); err != nil {
		return err
	}

	r.Effects = sui.NewTransactionEffectsDigest(buf)

	if err := log.ValueBase58(v, buf[:], "events"); err != nil {
		return err
	}

	r.Events = sui.NewTransactionEventsDigest(buf)

	if v.Exists("checkpoint") {
		seq, err := log.ValueUint64(v, "checkpoint")
		if err != nil {
			return err
		}

		r.Checkpoint = seq
	}

	return nil
}

// ObjectRecord tracks one version of an object. State equals Digest
// while the version is live; once the object is deleted or wrapped the
// row stays behind with the matching tombstone digest until a prune
// pass removes it.
type ObjectRecord struct {
	Digest      sui.ObjectDigest
	State       sui.ObjectDigest
	Transaction sui.TransactionDigest
	Version     uint64
}

func (r ObjectRecord) Alive() bool {
	return r.State.IsAlive()
}

func (r ObjectRecord) Marshal() []byte {
	w := bytes.NewBuffer(make([]byte, 0, 3*sui.SizeDigest+8))

	w.Write(r.Digest.Bytes())
	w.Write(r.State.Bytes())
	w.Write(r.Transaction.Bytes())

	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], r.Version)
	w.Write(buf[:8])

	return w.Bytes()
}

func UnmarshalObjectRecord(r io.Reader) (ObjectRecord, error) {
	var rec ObjectRecord

	var buf [sui.SizeDigest]byte

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode object digest")
	}

	rec.Digest = sui.NewObjectDigest(buf)

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode object state digest")
	}

	rec.State = sui.NewObjectDigest(buf)

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode object transaction digest")
	}

	rec.Transaction = sui.NewTransactionDigest(buf)

	var version [8]byte

	if _, err := io.ReadFull(r, version[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode object version")
	}

	rec.Version = binary.BigEndian.Uint64(version[:])

	return rec, nil
}

func (r ObjectRecord) MarshalEvent(ev *zerolog.Event) {
	ev.Str("digest", r.Digest.String())
	ev.Str("state", r.State.String())
	ev.Str("transaction", r.Transaction.String())
	ev.Uint64("version", r.Version)
	ev.Bool("alive", r.Alive())
	ev.Msg("Indexed object.")
}

func (r ObjectRecord) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	o := arena.NewObject()

	err := log.ObjectBatch(arena, o,
		"digest", r.Digest.String(),
		"state", r.State.String(),
		"transaction", r.Transaction.String(),
		"version", r.Version,
	)
	if err != nil {
		return nil, err
	}

	if r.Alive() {
		o.Set("alive", arena.NewTrue())
	} else {
		o.Set("alive", arena.NewFalse())
	}

	return o.MarshalTo(nil), nil
}

func (r *ObjectRecord) UnmarshalValue(v *fastjson.Value) error {
	var buf [sui.SizeDigest]byte

	if err := log.ValueBase58(v, buf[:], "digest"); err != nil {
		return err
	}

	r.Digest = sui.NewObjectDigest(buf)

	if v.Exists("state") {
		if err := log.ValueBase58(v, buf[:], "state"); err != nil {
			return err
		}

		r.State = sui.NewObjectDigest(buf)
	} else {
		r.State = r.Digest
	}

	if err := log.ValueBase58(v, buf[:], "transaction"); err != nil {
		return err
	}

	r.Transaction = sui.NewTransactionDigest(buf)

	if v.Exists("version") {
		version, err := log.ValueUint64(v, "version")
		if err != nil {
			return err
		}

		r.Version = version
	}

	return nil
}

// CheckpointRecord is a sealed checkpoint: its digest, the digest of
// its contents, and the transactions it seals, in order.
type CheckpointRecord struct {
	Sequence     uint64
	Digest       sui.CheckpointDigest
	Contents     sui.CheckpointContentsDigest
	Transactions []sui.TransactionDigest
}

func (r CheckpointRecord) Marshal() []byte {
	w := bytes.NewBuffer(make([]byte, 0, 8+2*sui.SizeDigest+4+len(r.Transactions)*sui.SizeDigest))

	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], r.Sequence)
	w.Write(buf[:8])

	w.Write(r.Digest.Bytes())
	w.Write(r.Contents.Bytes())

	binary.BigEndian.PutUint32(buf[:4], uint32(len(r.Transactions)))
	w.Write(buf[:4])

	for _, tx := range r.Transactions {
		w.Write(tx.Bytes())
	}

	return w.Bytes()
}

func UnmarshalCheckpointRecord(r io.Reader) (CheckpointRecord, error) {
	var rec CheckpointRecord

	var seq [8]byte

	if _, err := io.ReadFull(r, seq[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode checkpoint sequence")
	}

	rec.Sequence = binary.BigEndian.Uint64(seq[:])

	var buf [sui.SizeDigest]byte

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode checkpoint digest")
	}

	rec.Digest = sui.NewCheckpointDigest(buf)

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode checkpoint contents digest")
	}

	rec.Contents = sui.NewCheckpointContentsDigest(buf)

	var count [4]byte

	if _, err := io.ReadFull(r, count[:]); err != nil {
		return rec, errors.Wrap(err, "failed to decode checkpoint transaction count")
	}

	n := binary.BigEndian.Uint32(count[:])

	if n > sys.MaxCheckpointTransactions {
		return rec, errors.Errorf("checkpoint seals %d transaction(s), expected at most %d",
			n, sys.MaxCheckpointTransactions)
	}

	rec.Transactions = make([]sui.TransactionDigest, n)

	for i := range rec.Transactions {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return rec, errors.Wrap(err, "failed to decode sealed transaction digest")
		}

		rec.Transactions[i] = sui.NewTransactionDigest(buf)
	}

	return rec, nil
}

func (r CheckpointRecord) MarshalEvent(ev *zerolog.Event) {
	ev.Uint64("seq", r.Sequence)
	ev.Str("digest", r.Digest.String())
	ev.Str("contents", r.Contents.String())
	ev.Int("transactions", len(r.Transactions))
	ev.Msg("Sealed checkpoint.")
}

func (r CheckpointRecord) MarshalArena(arena *fastjson.Arena) ([]byte, error) {
	o := arena.NewObject()

	err := log.ObjectBatch(arena, o,
		"seq", r.Sequence,
		"digest", r.Digest.String(),
		"contents", r.Contents.String(),
	)
	if err != nil {
		return nil, err
	}

	txs := arena.NewArray()

	for i, tx := range r.Transactions {
		txs.SetArrayItem(i, log.ArenaBase58(arena, tx.Bytes()))
	}

	o.Set("transactions", txs)

	return o.MarshalTo(nil), nil
}

func (r *CheckpointRecord) UnmarshalValue(v *fastjson.Value) error {
	var buf [sui.SizeDigest]byte

	if err := log.ValueBase58(v, buf[:], "digest"); err != nil {
		return err
	}

	r.Digest = sui.NewCheckpointDigest(buf)

	if err := log.ValueBase58(v, buf[:], "contents"); err != nil {
		return err
	}

	r.Contents = sui.NewCheckpointContentsDigest(buf)

	if v.Exists("seq") {
		seq, err := log.ValueUint64(v, "seq")
		if err != nil {
			return err
		}

		r.Sequence = seq
	}

	items := v.GetArray("transactions")

	r.Transactions = make([]sui.TransactionDigest, 0, len(items))

	for _, item := range items {
		if err := log.ValueBase58(item, buf[:]); err != nil {
			return err
		}

		r.Transactions = append(r.Transactions, sui.NewTransactionDigest(buf))
	}

	return nil
}
