package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV(t *testing.T) {
	for _, backend := range []string{"inmem", "level"} {
		t.Run(backend, func(t *testing.T) {
			kv, cleanup := NewTestKV(t, backend, "db_"+backend)
			defer cleanup()

			_, err := kv.Get([]byte("missing"))
			assert.Equal(t, ErrNotFound, err)

			require.NoError(t, kv.Put([]byte("exist"), []byte("value")))

			v, err := kv.Get([]byte("exist"))
			require.NoError(t, err)
			assert.Equal(t, []byte("value"), v)

			// Empty values survive.
			require.NoError(t, kv.Put([]byte("empty"), []byte{}))

			v, err = kv.Get([]byte("empty"))
			require.NoError(t, err)
			assert.Len(t, v, 0)

			require.NoError(t, kv.Delete([]byte("exist")))

			_, err = kv.Get([]byte("exist"))
			assert.Equal(t, ErrNotFound, err)
		})
	}
}

func TestKVMultiGet(t *testing.T) {
	for _, backend := range []string{"inmem", "level"} {
		t.Run(backend, func(t *testing.T) {
			kv, cleanup := NewTestKV(t, backend, "db_"+backend)
			defer cleanup()

			require.NoError(t, kv.Put([]byte("a"), []byte("1")))
			require.NoError(t, kv.Put([]byte("b"), []byte("2")))

			bufs, err := kv.MultiGet([]byte("a"), []byte("b"))
			require.NoError(t, err)
			assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, bufs)

			_, err = kv.MultiGet([]byte("a"), []byte("missing"))
			assert.Equal(t, ErrNotFound, err)
		})
	}
}

func TestKVWriteBatch(t *testing.T) {
	for _, backend := range []string{"inmem", "level"} {
		t.Run(backend, func(t *testing.T) {
			kv, cleanup := NewTestKV(t, backend, "db_"+backend)
			defer cleanup()

			require.NoError(t, kv.Put([]byte("stale"), []byte("x")))

			wb := kv.NewWriteBatch()
			assert.NoError(t, wb.Put([]byte("k1"), []byte("v1")))
			assert.NoError(t, wb.Put([]byte("k2"), []byte("v2")))
			assert.NoError(t, wb.Delete([]byte("stale")))
			assert.Equal(t, 3, wb.Count())

			require.NoError(t, kv.CommitWriteBatch(wb))
			wb.Destroy()

			v, err := kv.Get([]byte("k1"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), v)

			_, err = kv.Get([]byte("stale"))
			assert.Equal(t, ErrNotFound, err)
		})
	}
}

func TestKVWriteBatchClear(t *testing.T) {
	for _, backend := range []string{"inmem", "level"} {
		t.Run(backend, func(t *testing.T) {
			kv, cleanup := NewTestKV(t, backend, "db_"+backend)
			defer cleanup()

			wb := kv.NewWriteBatch()
			assert.NoError(t, wb.Put([]byte("k"), []byte("v")))

			wb.Clear()
			assert.Equal(t, 0, wb.Count())

			require.NoError(t, kv.CommitWriteBatch(wb))

			_, err := kv.Get([]byte("k"))
			assert.Equal(t, ErrNotFound, err)
		})
	}
}

func TestKVIterate(t *testing.T) {
	for _, backend := range []string{"inmem", "level"} {
		t.Run(backend, func(t *testing.T) {
			kv, cleanup := NewTestKV(t, backend, "db_"+backend)
			defer cleanup()

			for i := 0; i < 10; i++ {
				key := []byte(fmt.Sprintf("k%d", i))
				require.NoError(t, kv.Put(key, []byte{byte(i)}))
			}

			// Full scan comes back in ascending key order.
			var keys []string

			err := kv.Iterate(nil, nil, func(key, value []byte) bool {
				keys = append(keys, string(key))
				return true
			})
			require.NoError(t, err)

			assert.Len(t, keys, 10)
			for i := 1; i < len(keys); i++ {
				assert.True(t, keys[i-1] < keys[i])
			}

			// Start is inclusive, limit exclusive.
			keys = keys[:0]

			err = kv.Iterate([]byte("k3"), []byte("k7"), func(key, value []byte) bool {
				keys = append(keys, string(key))
				return true
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"k3", "k4", "k5", "k6"}, keys)

			// Returning false stops the scan early.
			count := 0

			err = kv.Iterate(nil, nil, func(key, value []byte) bool {
				count++
				return count < 3
			})
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	}
}

func TestKVIterateCopies(t *testing.T) {
	for _, backend := range []string{"inmem", "level"} {
		t.Run(backend, func(t *testing.T) {
			kv, cleanup := NewTestKV(t, backend, "db_"+backend)
			defer cleanup()

			require.NoError(t, kv.Put([]byte("k"), []byte("value")))

			var kept []byte

			err := kv.Iterate(nil, nil, func(key, value []byte) bool {
				kept = value
				return true
			})
			require.NoError(t, err)

			kept[0] = 'X'

			v, err := kv.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("value"), v)
		})
	}
}
