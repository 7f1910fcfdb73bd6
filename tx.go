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

// TransactionDigest names a transaction. It is a distinct type from the
// other digest kinds: handing a TransactionDigest to something expecting an
// ObjectDigest (or vice versa) is a compile error, not a runtime surprise.
type TransactionDigest Digest

// ZeroTransactionDigest marks a transaction with no parent. It is the zero
// value of the type, and GenesisTransactionDigest returns the same value.
var ZeroTransactionDigest TransactionDigest

func NewTransactionDigest(buf [SizeDigest]byte) TransactionDigest {
	return TransactionDigest(buf)
}

// GenesisTransactionDigest returns the digest that signifies the parent
// transaction was the genesis, i.e. there is no parent transaction. It is
// the all-zero value.
func GenesisTransactionDigest() TransactionDigest {
	return ZeroTransactionDigest
}

func GenerateTransactionDigest(r io.Reader) (TransactionDigest, error) {
	d, err := GenerateDigest(r)
	return TransactionDigest(d), err
}

func RandomTransactionDigest() TransactionDigest {
	return TransactionDigest(RandomDigest())
}

// TransactionDigestFromBytes converts a byte slice into a transaction
// digest. It fails with ErrInvalidTransactionDigest unless the slice is
// exactly SizeDigest bytes long.
func TransactionDigestFromBytes(buf []byte) (TransactionDigest, error) {
	if len(buf) != SizeDigest {
		return ZeroTransactionDigest, ErrInvalidTransactionDigest
	}

	var d TransactionDigest
	copy(d[:], buf)

	return d, nil
}

// ParseTransactionDigest decodes the canonical base58 form of a transaction
// digest.
func ParseTransactionDigest(s string) (TransactionDigest, error) {
	d, err := ParseDigest(s)
	return TransactionDigest(d), err
}

func (d TransactionDigest) Bytes() []byte {
	return Digest(d).Bytes()
}

func (d TransactionDigest) String() string {
	return Digest(d).String()
}

func (d TransactionDigest) Base58() string {
	return Digest(d).Base58()
}

func (d TransactionDigest) Hex() string {
	return Digest(d).Hex()
}

func (d TransactionDigest) HexUpper() string {
	return Digest(d).HexUpper()
}

func (d TransactionDigest) HexPrefixed() string {
	return Digest(d).HexPrefixed()
}

func (d TransactionDigest) HexUpperPrefixed() string {
	return Digest(d).HexUpperPrefixed()
}

func (d TransactionDigest) Cmp(other TransactionDigest) int {
	return Digest(d).Cmp(Digest(other))
}

func (d TransactionDigest) MarshalBinary() ([]byte, error) {
	return Digest(d).MarshalBinary()
}

func (d *TransactionDigest) UnmarshalBinary(buf []byte) error {
	return (*Digest)(d).UnmarshalBinary(buf)
}

func (d TransactionDigest) MarshalText() ([]byte, error) {
	return Digest(d).MarshalText()
}

func (d *TransactionDigest) UnmarshalText(text []byte) error {
	return (*Digest)(d).UnmarshalText(text)
}

func (d TransactionDigest) JSONSchemaType() *jsonschema.Type {
	return digestSchemaType()
}
