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
	"io"

	"github.com/alecthomas/jsonschema"
)

// ObjectDigest names a single version of an object.
type ObjectDigest Digest

const (
	// ObjectDigestDeletedByte fills every byte of DeletedObjectDigest.
	ObjectDigestDeletedByte byte = 99

	// ObjectDigestWrappedByte fills every byte of WrappedObjectDigest.
	ObjectDigestWrappedByte byte = 88
)

var (
	// MinObjectDigest and MaxObjectDigest bound the full value range of the
	// type, for iteration and pruning.
	MinObjectDigest ObjectDigest
	MaxObjectDigest = filledObjectDigest(0xff)

	// DeletedObjectDigest marks an object as deleted. It is a legal value
	// of the type, but is never produced by hashing actual content.
	DeletedObjectDigest = filledObjectDigest(ObjectDigestDeletedByte)

	// WrappedObjectDigest marks an object as wrapped into another object.
	WrappedObjectDigest = filledObjectDigest(ObjectDigestWrappedByte)
)

func filledObjectDigest(b byte) ObjectDigest {
	var d ObjectDigest

	for i := range d {
		d[i] = b
	}

	return d
}

func NewObjectDigest(buf [SizeDigest]byte) ObjectDigest {
	return ObjectDigest(buf)
}

func GenerateObjectDigest(r io.Reader) (ObjectDigest, error) {
	d, err := GenerateDigest(r)
	return ObjectDigest(d), err
}

func RandomObjectDigest() ObjectDigest {
	return ObjectDigest(RandomDigest())
}

// ObjectDigestFromBytes converts a byte slice into an object digest. It
// fails unless the slice is exactly SizeDigest bytes long. The error is the
// shared ErrInvalidTransactionDigest value; see its doc comment.
func ObjectDigestFromBytes(buf []byte) (ObjectDigest, error) {
	if len(buf) != SizeDigest {
		return MinObjectDigest, ErrInvalidTransactionDigest
	}

	var d ObjectDigest
	copy(d[:], buf)

	return d, nil
}

// ParseObjectDigest decodes the canonical base58 form of an object digest.
func ParseObjectDigest(s string) (ObjectDigest, error) {
	d, err := ParseDigest(s)
	return ObjectDigest(d), err
}

// IsAlive reports whether the digest names a live object: it is false if
// and only if the digest equals DeletedObjectDigest or WrappedObjectDigest.
func (d ObjectDigest) IsAlive() bool {
	return d != DeletedObjectDigest && d != WrappedObjectDigest
}

func (d ObjectDigest) Bytes() []byte {
	return Digest(d).Bytes()
}

func (d ObjectDigest) String() string {
	return Digest(d).String()
}

// GoString renders the o#-prefixed diagnostic form, distinguishing object
// digests at a glance in debug output.
func (d ObjectDigest) GoString() string {
	return "o#" + Digest(d).String()
}

func (d ObjectDigest) Base58() string {
	return Digest(d).Base58()
}

func (d ObjectDigest) Hex() string {
	return Digest(d).Hex()
}

func (d ObjectDigest) HexUpper() string {
	return Digest(d).HexUpper()
}

func (d ObjectDigest) HexPrefixed() string {
	return Digest(d).HexPrefixed()
}

func (d ObjectDigest) HexUpperPrefixed() string {
	return Digest(d).HexUpperPrefixed()
}

func (d ObjectDigest) Cmp(other ObjectDigest) int {
	return Digest(d).Cmp(Digest(other))
}

func (d ObjectDigest) MarshalBinary() ([]byte, error) {
	return Digest(d).MarshalBinary()
}

func (d *ObjectDigest) UnmarshalBinary(buf []byte) error {
	return (*Digest)(d).UnmarshalBinary(buf)
}

func (d ObjectDigest) MarshalText() ([]byte, error) {
	return Digest(d).MarshalText()
}

func (d *ObjectDigest) UnmarshalText(text []byte) error {
	return (*Digest)(d).UnmarshalText(text)
}

func (d ObjectDigest) JSONSchemaType() *jsonschema.Type {
	return digestSchemaType()
}
