package sui

import "github.com/pkg/errors"

var (
	// ErrInvalidTransactionDigest is returned when converting a byte slice
	// of the wrong length into a digest. ObjectDigestFromBytes reuses it
	// rather than defining its own variant; callers match on this one value
	// for every slice-conversion failure.
	ErrInvalidTransactionDigest = errors.New("invalid transaction digest")
)
