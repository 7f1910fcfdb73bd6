package sui

import (
	"io"

	"github.com/alecthomas/jsonschema"
)

// TransactionEffectsDigest names the effects produced by executing a
// transaction. Effects digests render to text but are never parsed back
// from it: there is no FromBytes, no Parse and no UnmarshalText.
type TransactionEffectsDigest Digest

var ZeroTransactionEffectsDigest TransactionEffectsDigest

func NewTransactionEffectsDigest(buf [SizeDigest]byte) TransactionEffectsDigest {
	return TransactionEffectsDigest(buf)
}

func GenerateTransactionEffectsDigest(r io.Reader) (TransactionEffectsDigest, error) {
	d, err := GenerateDigest(r)
	return TransactionEffectsDigest(d), err
}

func RandomTransactionEffectsDigest() TransactionEffectsDigest {
	return TransactionEffectsDigest(RandomDigest())
}

func (d TransactionEffectsDigest) Bytes() []byte {
	return Digest(d).Bytes()
}

func (d TransactionEffectsDigest) String() string {
	return Digest(d).String()
}

func (d TransactionEffectsDigest) Base58() string {
	return Digest(d).Base58()
}

func (d TransactionEffectsDigest) Hex() string {
	return Digest(d).Hex()
}

func (d TransactionEffectsDigest) HexUpper() string {
	return Digest(d).HexUpper()
}

func (d TransactionEffectsDigest) HexPrefixed() string {
	return Digest(d).HexPrefixed()
}

func (d TransactionEffectsDigest) HexUpperPrefixed() string {
	return Digest(d).HexUpperPrefixed()
}

func (d TransactionEffectsDigest) Cmp(other TransactionEffectsDigest) int {
	return Digest(d).Cmp(Digest(other))
}

func (d TransactionEffectsDigest) MarshalBinary() ([]byte, error) {
	return Digest(d).MarshalBinary()
}

func (d *TransactionEffectsDigest) UnmarshalBinary(buf []byte) error {
	return (*Digest)(d).UnmarshalBinary(buf)
}

func (d TransactionEffectsDigest) MarshalText() ([]byte, error) {
	return Digest(d).MarshalText()
}

func (d TransactionEffectsDigest) JSONSchemaType() *jsonschema.Type {
	return digestSchemaType()
}
