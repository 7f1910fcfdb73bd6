package store

import (
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func BenchmarkLevelDB(b *testing.B) {
	path := "level"
	_ = os.RemoveAll(path)

	b.StopTimer()

	db, err := NewLevelDB(path)
	assert.NoError(b, err)

	defer os.RemoveAll(path)
	defer db.Close()

	b.StartTimer()
	defer b.StopTimer()

	for i := 0; i < b.N; i++ {
		var randomKey [128]byte
		var randomValue [600]byte

		_, err := rand.Read(randomKey[:])
		assert.NoError(b, err)
		_, err = rand.Read(randomValue[:])
		assert.NoError(b, err)

		err = db.Put(randomKey[:], randomValue[:])
		assert.NoError(b, err)

		value, err := db.Get(randomKey[:])
		assert.NoError(b, err)

		assert.EqualValues(b, randomValue[:], value)
	}
}

func TestLevelDBPersistence(t *testing.T) {
	path := "level"
	_ = os.RemoveAll(path)

	db, err := NewLevelDB(path)
	assert.NoError(t, err)

	defer os.RemoveAll(path)

	assert.Equal(t, path, db.Dir())

	assert.NoError(t, db.Put([]byte("exist"), []byte("value")))

	wb := db.NewWriteBatch()
	assert.NoError(t, wb.Put([]byte("key_batch1"), []byte("val_batch1")))
	assert.NoError(t, wb.Put([]byte("key_batch2"), []byte("val_batch2")))
	assert.NoError(t, db.CommitWriteBatch(wb))

	assert.NoError(t, db.Close())

	// Everything committed before the close survives a reopen.
	db2, err := NewLevelDB(path)
	assert.NoError(t, err)

	defer db2.Close()

	v, err := db2.Get([]byte("exist"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	mv, err := db2.MultiGet([]byte("key_batch1"), []byte("key_batch2"))
	assert.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("val_batch1"), []byte("val_batch2")}, mv)

	assert.NoError(t, db2.Delete([]byte("exist")))

	_, err = db2.Get([]byte("exist"))
	assert.Equal(t, ErrNotFound, err)
}
