package sys

var (
	// Number of index rows deleted per write batch while pruning dead
	// object digests.
	PruneBatchSize = 1024

	// Max number of digests returned for an abbreviated prefix lookup.
	MaxPrefixMatches = 100

	// Requests allowed per second, per IP, against the HTTP API.
	DefaultAPIRequestsPerSecond float64 = 1000

	// Max number of transaction digests a single checkpoint may seal.
	MaxCheckpointTransactions uint32 = 1 << 16
)
