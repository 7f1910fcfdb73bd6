package sui

import (
	"io"

	"github.com/alecthomas/jsonschema"
)

// CheckpointDigest names a sealed checkpoint.
type CheckpointDigest Digest

var ZeroCheckpointDigest CheckpointDigest

func NewCheckpointDigest(buf [SizeDigest]byte) CheckpointDigest {
	return CheckpointDigest(buf)
}

func GenerateCheckpointDigest(r io.Reader) (CheckpointDigest, error) {
	d, err := GenerateDigest(r)
	return CheckpointDigest(d), err
}

func RandomCheckpointDigest() CheckpointDigest {
	return CheckpointDigest(RandomDigest())
}

// ParseCheckpointDigest decodes the canonical base58 form of a checkpoint
// digest.
func ParseCheckpointDigest(s string) (CheckpointDigest, error) {
	d, err := ParseDigest(s)
	return CheckpointDigest(d), err
}

func (d CheckpointDigest) Bytes() []byte {
	return Digest(d).Bytes()
}

func (d CheckpointDigest) String() string {
	return Digest(d).String()
}

func (d CheckpointDigest) Base58() string {
	return Digest(d).Base58()
}

func (d CheckpointDigest) Hex() string {
	return Digest(d).Hex()
}

func (d CheckpointDigest) HexUpper() string {
	return Digest(d).HexUpper()
}

func (d CheckpointDigest) HexPrefixed() string {
	return Digest(d).HexPrefixed()
}

func (d CheckpointDigest) HexUpperPrefixed() string {
	return Digest(d).HexUpperPrefixed()
}

func (d CheckpointDigest) Cmp(other CheckpointDigest) int {
	return Digest(d).Cmp(Digest(other))
}

func (d CheckpointDigest) MarshalBinary() ([]byte, error) {
	return Digest(d).MarshalBinary()
}

func (d *CheckpointDigest) UnmarshalBinary(buf []byte) error {
	return (*Digest)(d).UnmarshalBinary(buf)
}

func (d CheckpointDigest) MarshalText() ([]byte, error) {
	return Digest(d).MarshalText()
}

func (d *CheckpointDigest) UnmarshalText(text []byte) error {
	return (*Digest)(d).UnmarshalText(text)
}

func (d CheckpointDigest) JSONSchemaType() *jsonschema.Type {
	return digestSchemaType()
}

// CheckpointContentsDigest names the contents of a checkpoint, i.e. the
// list of transactions it seals. Unlike CheckpointDigest there is no named
// zero sentinel for it, and no parsing: contents digests render only.
type CheckpointContentsDigest Digest

func NewCheckpointContentsDigest(buf [SizeDigest]byte) CheckpointContentsDigest {
	return CheckpointContentsDigest(buf)
}

func GenerateCheckpointContentsDigest(r io.Reader) (CheckpointContentsDigest, error) {
	d, err := GenerateDigest(r)
	return CheckpointContentsDigest(d), err
}

func RandomCheckpointContentsDigest() CheckpointContentsDigest {
	return CheckpointContentsDigest(RandomDigest())
}

func (d CheckpointContentsDigest) Bytes() []byte {
	return Digest(d).Bytes()
}

func (d CheckpointContentsDigest) String() string {
	return Digest(d).String()
}

func (d CheckpointContentsDigest) Base58() string {
	return Digest(d).Base58()
}

func (d CheckpointContentsDigest) Hex() string {
	return Digest(d).Hex()
}

func (d CheckpointContentsDigest) HexUpper() string {
	return Digest(d).HexUpper()
}

func (d CheckpointContentsDigest) HexPrefixed() string {
	return Digest(d).HexPrefixed()
}

func (d CheckpointContentsDigest) HexUpperPrefixed() string {
	return Digest(d).HexUpperPrefixed()
}

func (d CheckpointContentsDigest) Cmp(other CheckpointContentsDigest) int {
	return Digest(d).Cmp(Digest(other))
}

func (d CheckpointContentsDigest) MarshalBinary() ([]byte, error) {
	return Digest(d).MarshalBinary()
}

func (d *CheckpointContentsDigest) UnmarshalBinary(buf []byte) error {
	return (*Digest)(d).UnmarshalBinary(buf)
}

func (d CheckpointContentsDigest) MarshalText() ([]byte, error) {
	return Digest(d).MarshalText()
}

func (d CheckpointContentsDigest) JSONSchemaType() *jsonschema.Type {
	return digestSchemaType()
}
