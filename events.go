package sui

// TransactionEventsDigest names the event stream emitted by a transaction.
// It deliberately has the narrowest surface of the digest family: events
// digests are never parsed from or rendered to user-facing text, so there
// is no byte-slice conversion, no Parse, no Base58 and no hex here. The
// binary hooks remain since every kind shares the fixed 32-byte wire form.
type TransactionEventsDigest Digest

var ZeroTransactionEventsDigest TransactionEventsDigest

func NewTransactionEventsDigest(buf [SizeDigest]byte) TransactionEventsDigest {
	return TransactionEventsDigest(buf)
}

func RandomTransactionEventsDigest() TransactionEventsDigest {
	return TransactionEventsDigest(RandomDigest())
}

// String is a debug form only.
func (d TransactionEventsDigest) String() string {
	return Digest(d).String()
}

func (d TransactionEventsDigest) MarshalBinary() ([]byte, error) {
	return Digest(d).MarshalBinary()
}

func (d *TransactionEventsDigest) UnmarshalBinary(buf []byte) error {
	return (*Digest)(d).UnmarshalBinary(buf)
}
