package sui

import "golang.org/x/crypto/blake2b"

// SumDigest hashes data with BLAKE2b-256 and returns the result as a
// digest. None of the Sum constructors validate content semantics; they
// only bind hash output to a digest kind.
func SumDigest(data []byte) Digest {
	return Digest(blake2b.Sum256(data))
}

func SumTransactionDigest(data []byte) TransactionDigest {
	return TransactionDigest(blake2b.Sum256(data))
}

func SumTransactionEffectsDigest(data []byte) TransactionEffectsDigest {
	return TransactionEffectsDigest(blake2b.Sum256(data))
}

func SumTransactionEventsDigest(data []byte) TransactionEventsDigest {
	return TransactionEventsDigest(blake2b.Sum256(data))
}

func SumObjectDigest(data []byte) ObjectDigest {
	return ObjectDigest(blake2b.Sum256(data))
}

func SumCheckpointDigest(data []byte) CheckpointDigest {
	return CheckpointDigest(blake2b.Sum256(data))
}

func SumCheckpointContentsDigest(data []byte) CheckpointContentsDigest {
	return CheckpointContentsDigest(blake2b.Sum256(data))
}
