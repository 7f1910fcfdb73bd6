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
	"crypto/rand"
	"fmt"
	"io"

	"github.com/alecthomas/jsonschema"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// SizeDigest is the size in bytes of every ledger digest.
const SizeDigest = blake2b.Size256

// Digest is a 32-byte value naming a piece of ledger content. It carries no
// semantics of its own: equality is `==`, ordering is byte-lexicographic,
// and the canonical textual form is base58. The domain-specific digest kinds
// (TransactionDigest, ObjectDigest, ...) are all defined on top of it.
type Digest [SizeDigest]byte

// ZeroDigest is the all-zero digest.
var ZeroDigest Digest

// NewDigest returns a digest holding an exact copy of buf.
func NewDigest(buf [SizeDigest]byte) Digest {
	return Digest(buf)
}

// GenerateDigest fills a digest from the given source of randomness. The
// source is expected to be cryptographically secure, e.g. crypto/rand.
func GenerateDigest(r io.Reader) (Digest, error) {
	var d Digest

	if _, err := io.ReadFull(r, d[:]); err != nil {
		return ZeroDigest, errors.Wrap(err, "failed to generate digest")
	}

	return d, nil
}

// RandomDigest fills a digest from the process-wide secure source of
// randomness. It panics if and only if the source itself fails.
func RandomDigest() Digest {
	d, err := GenerateDigest(rand.Reader)
	if err != nil {
		panic(err)
	}

	return d
}

// ParseDigest decodes the canonical base58 form of a digest. It fails if the
// text is not valid base58, or if it decodes to anything other than exactly
// SizeDigest bytes.
func ParseDigest(s string) (Digest, error) {
	buf, err := base58.Decode(s)
	if err != nil {
		return ZeroDigest, errors.Wrap(err, "failed to decode digest from base58")
	}

	if len(buf) != SizeDigest {
		return ZeroDigest, errors.Errorf("digest decodes to %d byte(s), expected %d", len(buf), SizeDigest)
	}

	var d Digest
	copy(d[:], buf)

	return d, nil
}

// Bytes returns the raw bytes of the digest.
func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) String() string {
	return base58.Encode(d[:])
}

// Base58 is an explicit alias for the canonical textual form.
func (d Digest) Base58() string {
	return d.String()
}

// Hex and its variants render the digest for logs and debuggers. They are
// never a wire or storage format; the canonical forms are Bytes and base58.
func (d Digest) Hex() string {
	return fmt.Sprintf("%x", d[:])
}

func (d Digest) HexUpper() string {
	return fmt.Sprintf("%X", d[:])
}

func (d Digest) HexPrefixed() string {
	return "0x" + d.Hex()
}

func (d Digest) HexUpperPrefixed() string {
	return "0x" + d.HexUpper()
}

// Cmp compares two digests byte-lexicographically, returning -1, 0 or 1. The
// order is used for deterministic indexing and carries no numeric meaning.
func (d Digest) Cmp(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

// MarshalBinary renders the wire form of the digest: its raw bytes, fixed
// width, with no length prefix.
func (d Digest) MarshalBinary() ([]byte, error) {
	return d.Bytes(), nil
}

func (d *Digest) UnmarshalBinary(buf []byte) error {
	if len(buf) != SizeDigest {
		return errors.Errorf("digest is %d byte(s), expected %d", len(buf), SizeDigest)
	}

	copy(d[:], buf)

	return nil
}

// MarshalText renders the canonical base58 form, picked up by any codec in
// its human-readable mode (e.g. encoding/json).
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

func (d Digest) JSONSchemaType() *jsonschema.Type {
	return digestSchemaType()
}

func digestSchemaType() *jsonschema.Type {
	return &jsonschema.Type{
		Type:        "string",
		Format:      "base58",
		Description: "a base-58 encoded string",
	}
}
