package index

import (
	"encoding/binary"

	"github.com/golang/snappy"
	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
)

var ErrChecksumMismatch = errors.New("record checksum mismatch")

// envelopeKey keys the row checksums. A fixed key is fine here: the
// checksum guards against disk corruption, not tampering.
var envelopeKey [32]byte

// seal prepends a keyed 64-bit checksum of payload to its snappy
// compression. Every row in the index goes through seal before it
// touches the kv store.
func seal(payload []byte) []byte {
	buf := make([]byte, 8+snappy.MaxEncodedLen(len(payload)))
	binary.BigEndian.PutUint64(buf[:8], highwayhash.Sum64(payload, envelopeKey[:]))

	compressed := snappy.Encode(buf[8:], payload)

	return buf[:8+len(compressed)]
}

// open reverses seal, surfacing ErrChecksumMismatch for rows whose
// payload no longer matches their checksum.
func open(buf []byte) ([]byte, error) {
	if len(buf) < 8 {
		return nil, errors.Errorf("sealed record is %d byte(s), expected at least 8", len(buf))
	}

	payload, err := snappy.Decode(nil, buf[8:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress record")
	}

	if highwayhash.Sum64(payload, envelopeKey[:]) != binary.BigEndian.Uint64(buf[:8]) {
		return nil, ErrChecksumMismatch
	}

	return payload, nil
}
