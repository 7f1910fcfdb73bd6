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
	"encoding/binary"

	"github.com/nisha7908/sui"
)

var (
	// Global prefixes.
	keyTransactions      = [...]byte{0x1}
	keyObjects           = [...]byte{0x2}
	keyCheckpoints       = [...]byte{0x3}
	keyCheckpointDigests = [...]byte{0x4}
	keyCheckpointLatest  = [...]byte{0x5}
	keyTransactionsLen   = [...]byte{0x6}
	keyObjectsLen        = [...]byte{0x7}
	keyCheckpointsLen    = [...]byte{0x8}
)

func transactionKey(digest sui.TransactionDigest) []byte {
	k := make([]byte, 0, len(keyTransactions)+sui.SizeDigest)
	k = append(k, keyTransactions[:]...)
	k = append(k, digest.Bytes()...)

	return k
}

func objectKey(digest sui.ObjectDigest) []byte {
	k := make([]byte, 0, len(keyObjects)+sui.SizeDigest)
	k = append(k, keyObjects[:]...)
	k = append(k, digest.Bytes()...)

	return k
}

// checkpointKey is keyed by sequence, big-endian so that kv iteration
// visits checkpoints in seal order.
func checkpointKey(seq uint64) []byte {
	k := make([]byte, len(keyCheckpoints)+8)
	copy(k, keyCheckpoints[:])

	binary.BigEndian.PutUint64(k[len(keyCheckpoints):], seq)

	return k
}

func checkpointDigestKey(digest sui.CheckpointDigest) []byte {
	k := make([]byte, 0, len(keyCheckpointDigests)+sui.SizeDigest)
	k = append(k, keyCheckpointDigests[:]...)
	k = append(k, digest.Bytes()...)

	return k
}

// tableBounds returns the [start, limit) pair that spans every key
// under a one-byte table prefix.
func tableBounds(prefix [1]byte) (start, limit []byte) {
	return []byte{prefix[0]}, []byte{prefix[0] + 1}
}
