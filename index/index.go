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
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/armon/go-radix"
	"github.com/google/btree"
	"github.com/nisha7908/sui"
	"github.com/nisha7908/sui/conf"
	"github.com/nisha7908/sui/log"
	"github.com/nisha7908/sui/store"
	"github.com/nisha7908/sui/sys"
	"github.com/pkg/errors"
)

const (
	KindTransaction = "transaction"
	KindObject      = "object"
	KindCheckpoint  = "checkpoint"
)

// PrefixMatch is a single hit for an abbreviated digest lookup.
type PrefixMatch struct {
	Digest string
	Kind   string
}

type objectItem sui.ObjectDigest

func (a objectItem) Less(b btree.Item) bool {
	return sui.ObjectDigest(a).Cmp(sui.ObjectDigest(b.(objectItem))) < 0
}

// Index keys a ledger's transactions, objects and checkpoints by their
// digests on top of a kv store. All methods are safe for concurrent
// use.
type Index struct {
	kv store.KV

	metrics *Metrics
	cancel  context.CancelFunc

	// The sequence and count registers live in the kv store and are
	// bumped read-modify-write, so the mutating methods take turns.
	writes sync.Mutex

	mu       sync.RWMutex
	live     *btree.BTree
	prefixes *radix.Tree
}

// New opens an index over kv, rebuilding the in-memory live-object set
// and the prefix-resolution tree from the stored rows.
func New(kv store.KV) (*Index, error) {
	ctx, cancel := context.WithCancel(context.Background())

	idx := &Index{
		kv: kv,

		metrics: NewMetrics(ctx),
		cancel:  cancel,

		live:     btree.New(32),
		prefixes: radix.New(),
	}

	if err := idx.recover(); err != nil {
		cancel()
		idx.metrics.Stop()

		return nil, errors.Wrap(err, "failed to recover index")
	}

	return idx, nil
}

func (idx *Index) recover() error {
	var transactions, objects, checkpoints, corrupt int

	start, limit := tableBounds(keyTransactions)

	err := idx.kv.Iterate(start, limit, func(key, value []byte) bool {
		digest, err := sui.TransactionDigestFromBytes(key[len(keyTransactions):])
		if err != nil {
			corrupt++
			return true
		}

		idx.prefixes.Insert(digest.String(), KindTransaction)
		transactions++

		return true
	})
	if err != nil {
		return errors.Wrap(err, "failed to scan transaction rows")
	}

	start, limit = tableBounds(keyObjects)

	err = idx.kv.Iterate(start, limit, func(key, value []byte) bool {
		payload, err := open(value)
		if err != nil {
			corrupt++
			return true
		}

		rec, err := UnmarshalObjectRecord(bytes.NewReader(payload))
		if err != nil {
			corrupt++
			return true
		}

		if rec.Alive() {
			idx.live.ReplaceOrInsert(objectItem(rec.Digest))
		}

		idx.prefixes.Insert(rec.Digest.String(), KindObject)
		objects++

		return true
	})
	if err != nil {
		return errors.Wrap(err, "failed to scan object rows")
	}

	start, limit = tableBounds(keyCheckpointDigests)

	err = idx.kv.Iterate(start, limit, func(key, value []byte) bool {
		var digest sui.CheckpointDigest

		if err := digest.UnmarshalBinary(key[len(keyCheckpointDigests):]); err != nil {
			corrupt++
			return true
		}

		idx.prefixes.Insert(digest.String(), KindCheckpoint)
		checkpoints++

		return true
	})
	if err != nil {
		return errors.Wrap(err, "failed to scan checkpoint rows")
	}

	logger := log.Index("recovered")
	logger.Info().
		Int("transactions", transactions).
		Int("objects", objects).
		Int("checkpoints", checkpoints).
		Int("corrupt", corrupt).
		Int("live", idx.live.Len()).
		Msg("Recovered index.")

	return nil
}

// Close stops the metrics reporter. The kv store stays open; whoever
// opened it closes it.
func (idx *Index) Close() error {
	idx.cancel()
	idx.metrics.Stop()

	return nil
}

// PutTransaction stores rec keyed by its digest, overwriting any
// previous record for the same digest.
func (idx *Index) PutTransaction(rec TransactionRecord) error {
	idx.writes.Lock()
	defer idx.writes.Unlock()

	key := transactionKey(rec.Digest)

	fresh, err := idx.missing(key)
	if err != nil {
		return err
	}

	if err := idx.kv.Put(key, seal(rec.Marshal())); err != nil {
		return errors.Wrap(err, "failed to store transaction record")
	}

	if fresh {
		if err := idx.bumpCount(keyTransactionsLen, 1); err != nil {
			return err
		}

		idx.mu.Lock()
		idx.prefixes.Insert(rec.Digest.String(), KindTransaction)
		idx.mu.Unlock()
	}

	idx.metrics.storedTX.Mark(1)

	logger := log.Index("stored_tx")
	log.Info(&logger, rec)

	return nil
}

// Transaction loads the record stored for digest, or a wrapped
// store.ErrNotFound when the index has never seen it.
func (idx *Index) Transaction(digest sui.TransactionDigest) (TransactionRecord, error) {
	defer idx.metrics.lookupLatency.UpdateSince(time.Now())

	var rec TransactionRecord

	value, err := idx.kv.Get(transactionKey(digest))
	if err != nil {
		return rec, errors.Wrapf(err, "failed to load transaction %s", digest)
	}

	payload, err := open(value)
	if err != nil {
		return rec, err
	}

	rec, err = UnmarshalTransactionRecord(bytes.NewReader(payload))
	if err != nil {
		return rec, err
	}

	idx.metrics.fetched.Mark(1)

	return rec, nil
}

// PutObject stores one object version. A zero State marks the version
// live; the DELETED and WRAPPED tombstone digests mark it dead and
// drop it from the live set.
func (idx *Index) PutObject(rec ObjectRecord) error {
	if rec.State == sui.MinObjectDigest {
		rec.State = rec.Digest
	}

	idx.writes.Lock()
	defer idx.writes.Unlock()

	key := objectKey(rec.Digest)

	fresh, err := idx.missing(key)
	if err != nil {
		return err
	}

	if err := idx.kv.Put(key, seal(rec.Marshal())); err != nil {
		return errors.Wrap(err, "failed to store object record")
	}

	if fresh {
		if err := idx.bumpCount(keyObjectsLen, 1); err != nil {
			return err
		}
	}

	idx.mu.Lock()

	if rec.Alive() {
		idx.live.ReplaceOrInsert(objectItem(rec.Digest))
	} else {
		idx.live.Delete(objectItem(rec.Digest))
	}

	idx.prefixes.Insert(rec.Digest.String(), KindObject)

	idx.mu.Unlock()

	idx.metrics.storedObjects.Mark(1)

	logger := log.Index("stored_object")
	log.Info(&logger, rec)

	return nil
}

// Object loads the record stored for one object version digest.
func (idx *Index) Object(digest sui.ObjectDigest) (ObjectRecord, error) {
	defer idx.metrics.lookupLatency.UpdateSince(time.Now())

	var rec ObjectRecord

	value, err := idx.kv.Get(objectKey(digest))
	if err != nil {
		return rec, errors.Wrapf(err, "failed to load object %s", digest)
	}

	payload, err := open(value)
	if err != nil {
		return rec, err
	}

	rec, err = UnmarshalObjectRecord(bytes.NewReader(payload))
	if err != nil {
		return rec, err
	}

	idx.metrics.fetched.Mark(1)

	return rec, nil
}

// SealCheckpoint assigns the next sequence number to a checkpoint and
// stamps every sealed transaction record with it. Transactions the
// index has never seen get a fresh record with zero effects and events
// digests; the checkpoint vouches that they exist.
func (idx *Index) SealCheckpoint(digest sui.CheckpointDigest, contents sui.CheckpointContentsDigest, txs []sui.TransactionDigest) (CheckpointRecord, error) {
	defer idx.metrics.sealLatency.UpdateSince(time.Now())

	var rec CheckpointRecord

	if uint32(len(txs)) > sys.MaxCheckpointTransactions {
		return rec, errors.Errorf("checkpoint seals %d transaction(s), expected at most %d",
			len(txs), sys.MaxCheckpointTransactions)
	}

	// Seals take turns: the sequence register must be read and bumped
	// inside the same critical section, or two seals alias a sequence.
	idx.writes.Lock()
	defer idx.writes.Unlock()

	if _, err := idx.kv.Get(checkpointDigestKey(digest)); err == nil {
		return rec, errors.Errorf("checkpoint %s is already sealed", digest)
	} else if err != store.ErrNotFound {
		return rec, errors.Wrap(err, "failed to check checkpoint digest")
	}

	latest, err := idx.readCount(keyCheckpointLatest[:])
	if err != nil {
		return rec, err
	}

	seq := latest + 1

	rec = CheckpointRecord{
		Sequence:     seq,
		Digest:       digest,
		Contents:     contents,
		Transactions: txs,
	}

	var seqBuf [8]byte

	binary.BigEndian.PutUint64(seqBuf[:], seq)

	batch := idx.kv.NewWriteBatch()
	defer batch.Destroy()

	if err := batch.Put(checkpointKey(seq), seal(rec.Marshal())); err != nil {
		return rec, errors.Wrap(err, "failed to batch checkpoint record")
	}

	if err := batch.Put(checkpointDigestKey(digest), seqBuf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to batch checkpoint digest")
	}

	if err := batch.Put(keyCheckpointLatest[:], seqBuf[:]); err != nil {
		return rec, errors.Wrap(err, "failed to batch latest sequence")
	}

	created := 0

	for _, tx := range txs {
		txRec, err := idx.Transaction(tx)

		switch {
		case err == nil:
		case errors.Cause(err) == store.ErrNotFound:
			txRec = TransactionRecord{Digest: tx}
			created++
		default:
			return rec, err
		}

		txRec.Checkpoint = seq

		if err := batch.Put(transactionKey(tx), seal(txRec.Marshal())); err != nil {
			return rec, errors.Wrap(err, "failed to batch sealed transaction")
		}
	}

	if err := idx.kv.CommitWriteBatch(batch); err != nil {
		return rec, errors.Wrap(err, "failed to commit checkpoint batch")
	}

	if err := idx.bumpCount(keyCheckpointsLen, 1); err != nil {
		return rec, err
	}

	if created > 0 {
		if err := idx.bumpCount(keyTransactionsLen, created); err != nil {
			return rec, err
		}
	}

	idx.mu.Lock()

	idx.prefixes.Insert(digest.String(), KindCheckpoint)

	for _, tx := range txs {
		idx.prefixes.Insert(tx.String(), KindTransaction)
	}

	idx.mu.Unlock()

	idx.metrics.sealed.Mark(1)

	logger := log.Index("sealed_checkpoint")
	log.Info(&logger, rec)

	return rec, nil
}

// Checkpoint loads a sealed checkpoint by sequence number.
func (idx *Index) Checkpoint(seq uint64) (CheckpointRecord, error) {
	defer idx.metrics.lookupLatency.UpdateSince(time.Now())

	var rec CheckpointRecord

	value, err := idx.kv.Get(checkpointKey(seq))
	if err != nil {
		return rec, errors.Wrapf(err, "failed to load checkpoint %d", seq)
	}

	payload, err := open(value)
	if err != nil {
		return rec, err
	}

	rec, err = UnmarshalCheckpointRecord(bytes.NewReader(payload))
	if err != nil {
		return rec, err
	}

	idx.metrics.fetched.Mark(1)

	return rec, nil
}

// CheckpointByDigest resolves a checkpoint digest to its sequence and
// loads the record.
func (idx *Index) CheckpointByDigest(digest sui.CheckpointDigest) (CheckpointRecord, error) {
	value, err := idx.kv.Get(checkpointDigestKey(digest))
	if err != nil {
		return CheckpointRecord{}, errors.Wrapf(err, "failed to resolve checkpoint %s", digest)
	}

	return idx.Checkpoint(binary.BigEndian.Uint64(value))
}

// LatestCheckpoint loads the newest sealed checkpoint, or a wrapped
// store.ErrNotFound when nothing has been sealed yet.
func (idx *Index) LatestCheckpoint() (CheckpointRecord, error) {
	value, err := idx.kv.Get(keyCheckpointLatest[:])
	if err != nil {
		return CheckpointRecord{}, errors.Wrap(err, "failed to load latest sequence")
	}

	return idx.Checkpoint(binary.BigEndian.Uint64(value))
}

// ResolvePrefix lists stored digests whose base-58 form starts with
// prefix, capped at limit (or the configured maximum).
func (idx *Index) ResolvePrefix(prefix string, limit int) []PrefixMatch {
	defer idx.metrics.lookupLatency.UpdateSince(time.Now())

	max := conf.GetMaxPrefixMatches()
	if limit <= 0 || limit > max {
		limit = max
	}

	matches := make([]PrefixMatch, 0, limit)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.prefixes.WalkPrefix(prefix, func(s string, v interface{}) bool {
		matches = append(matches, PrefixMatch{Digest: s, Kind: v.(string)})

		return len(matches) >= limit
	})

	return matches
}

// LiveObjects lists live object version digests in ascending digest
// order, starting strictly after the given digest. Passing
// sui.MinObjectDigest starts from the beginning and includes an object
// sitting exactly at MIN.
func (idx *Index) LiveObjects(after sui.ObjectDigest, limit int) []sui.ObjectDigest {
	if limit <= 0 {
		limit = conf.GetMaxPrefixMatches()
	}

	out := make([]sui.ObjectDigest, 0, limit)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.live.AscendGreaterOrEqual(objectItem(after), func(i btree.Item) bool {
		digest := sui.ObjectDigest(i.(objectItem))

		if digest == after && after != sui.MinObjectDigest {
			return true
		}

		out = append(out, digest)

		return len(out) < limit
	})

	return out
}

// NumLive reports the size of the live object set.
func (idx *Index) NumLive() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.live.Len()
}

// Size reports how many transactions, objects and checkpoints the
// index holds.
func (idx *Index) Size() (transactions, objects, checkpoints uint64, err error) {
	if transactions, err = idx.readCount(keyTransactionsLen[:]); err != nil {
		return
	}

	if objects, err = idx.readCount(keyObjectsLen[:]); err != nil {
		return
	}

	checkpoints, err = idx.readCount(keyCheckpointsLen[:])

	return
}

// PruneObjects deletes the rows of dead object versions, walking the
// whole MIN..MAX digest range. The number of rows removed in one pass
// honors conf.GetPruneLimit when it is set.
func (idx *Index) PruneObjects() (int, error) {
	idx.writes.Lock()
	defer idx.writes.Unlock()

	pruneLimit := conf.GetPruneLimit()

	start := objectKey(sui.MinObjectDigest)

	// Iterate excludes its limit; extending the maximal key by one
	// byte keeps an object sitting exactly at MAX in range.
	limit := append(objectKey(sui.MaxObjectDigest), 0x00)

	var doomed []sui.ObjectDigest

	err := idx.kv.Iterate(start, limit, func(key, value []byte) bool {
		payload, err := open(value)
		if err != nil {
			return true
		}

		rec, err := UnmarshalObjectRecord(bytes.NewReader(payload))
		if err != nil {
			return true
		}

		if rec.Alive() {
			return true
		}

		doomed = append(doomed, rec.Digest)

		return pruneLimit == 0 || uint64(len(doomed)) < pruneLimit
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to scan object rows")
	}

	if len(doomed) == 0 {
		return 0, nil
	}

	batch := idx.kv.NewWriteBatch()
	defer batch.Destroy()

	for _, digest := range doomed {
		if err := batch.Delete(objectKey(digest)); err != nil {
			return 0, errors.Wrap(err, "failed to batch prune")
		}

		if batch.Count() >= sys.PruneBatchSize {
			if err := idx.kv.CommitWriteBatch(batch); err != nil {
				return 0, errors.Wrap(err, "failed to commit prune batch")
			}

			batch.Clear()
		}
	}

	if batch.Count() > 0 {
		if err := idx.kv.CommitWriteBatch(batch); err != nil {
			return 0, errors.Wrap(err, "failed to commit prune batch")
		}
	}

	if err := idx.bumpCount(keyObjectsLen, -len(doomed)); err != nil {
		return 0, err
	}

	idx.mu.Lock()

	for _, digest := range doomed {
		idx.prefixes.Delete(digest.String())
		idx.live.Delete(objectItem(digest))
	}

	idx.mu.Unlock()

	idx.metrics.pruned.Mark(int64(len(doomed)))

	logger := log.Index("pruned")
	logger.Info().
		Int("count", len(doomed)).
		Msg("Pruned dead object rows.")

	return len(doomed), nil
}

// missing reports whether no row exists yet under key.
func (idx *Index) missing(key []byte) (bool, error) {
	_, err := idx.kv.Get(key)

	switch {
	case err == nil:
		return false, nil
	case errors.Cause(err) == store.ErrNotFound:
		return true, nil
	default:
		return false, errors.Wrap(err, "failed to probe row")
	}
}

func (idx *Index) readCount(key []byte) (uint64, error) {
	value, err := idx.kv.Get(key)

	switch {
	case errors.Cause(err) == store.ErrNotFound:
		return 0, nil
	case err != nil:
		return 0, errors.Wrap(err, "failed to read count register")
	}

	return binary.BigEndian.Uint64(value), nil
}

func (idx *Index) bumpCount(key [1]byte, delta int) error {
	count, err := idx.readCount(key[:])
	if err != nil {
		return err
	}

	count = uint64(int64(count) + int64(delta))

	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], count)

	return errors.Wrap(idx.kv.Put(key[:], buf[:]), "failed to write count register")
}
