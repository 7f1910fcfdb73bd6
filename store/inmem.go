package store

import (
	"bytes"
	"sync"

	"github.com/huandu/skiplist"
	"github.com/pkg/errors"
)

type kvPair struct {
	key, value []byte
	deleted    bool
}

var _ WriteBatch = (*inmemWriteBatch)(nil)

type inmemWriteBatch struct {
	pairs []kvPair
}

func (b *inmemWriteBatch) Put(key, value []byte) error {
	b.pairs = append(b.pairs, kvPair{key: key, value: value})
	return nil
}

func (b *inmemWriteBatch) Delete(key []byte) error {
	b.pairs = append(b.pairs, kvPair{key: key, deleted: true})
	return nil
}

func (b *inmemWriteBatch) Clear() {
	b.pairs = make([]kvPair, 0)
}

func (b *inmemWriteBatch) Count() int {
	return len(b.pairs)
}

func (b *inmemWriteBatch) Destroy() {
	b.pairs = nil
}

var _ KV = (*inmemKV)(nil)

type inmemKV struct {
	sync.RWMutex
	db *skiplist.SkipList
}

func (s *inmemKV) Close() error {
	s.Lock()
	defer s.Unlock()

	s.db.Init()
	s.db = nil

	return nil
}

func (s *inmemKV) Get(key []byte) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	buf, found := s.db.GetValue(key)
	if !found {
		return nil, ErrNotFound
	}

	return buf.([]byte), nil
}

func (s *inmemKV) MultiGet(keys ...[]byte) ([][]byte, error) {
	s.RLock()
	defer s.RUnlock()

	var bufs [][]byte

	for _, key := range keys {
		buf, found := s.db.GetValue(key)
		if !found {
			return nil, ErrNotFound
		}

		bufs = append(bufs, buf.([]byte))
	}

	return bufs, nil
}

func (s *inmemKV) Put(key, value []byte) error {
	s.Lock()
	defer s.Unlock()

	_ = s.db.Set(key, value)
	return nil
}

func (s *inmemKV) NewWriteBatch() WriteBatch {
	return new(inmemWriteBatch)
}

func (s *inmemKV) CommitWriteBatch(batch WriteBatch) error {
	s.Lock()
	defer s.Unlock()

	if wb, ok := batch.(*inmemWriteBatch); ok {
		for _, pair := range wb.pairs {
			if pair.deleted {
				_ = s.db.Remove(pair.key)
			} else {
				_ = s.db.Set(pair.key, pair.value)
			}
		}

		return nil
	}

	return errors.New("inmem: not fed in a proper in-memory write batch")
}

func (s *inmemKV) Delete(key []byte) error {
	s.Lock()
	defer s.Unlock()

	_ = s.db.Remove(key)
	return nil
}

func (s *inmemKV) Iterate(start, limit []byte, cb func(key, value []byte) bool) error {
	s.RLock()
	defer s.RUnlock()

	for e := s.db.Front(); e != nil; e = e.Next() {
		key := e.Key().([]byte)

		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}

		if limit != nil && bytes.Compare(key, limit) >= 0 {
			break
		}

		buf, found := s.db.GetValue(key)
		if !found {
			continue
		}

		k := append([]byte(nil), key...)
		v := append([]byte(nil), buf.([]byte)...)

		if !cb(k, v) {
			break
		}
	}

	return nil
}

func (s *inmemKV) Dir() string {
	return ""
}

func NewInmem() *inmemKV {
	var comparator skiplist.GreaterThanFunc = func(lhs, rhs interface{}) bool {
		return bytes.Compare(lhs.([]byte), rhs.([]byte)) == 1
	}

	return &inmemKV{db: skiplist.New(comparator)}
}
