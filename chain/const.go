package chain

import "time"

// Constants shared across both the Ethereum and Lisk rover variants.
const (
	// ForkProbeTimeout bounds how long a peer has to answer the fork probe.
	ForkProbeTimeout = 15 * time.Second

	// PeerMaxAge is how long a verified peer is kept before it is refreshed.
	PeerMaxAge = 10 * time.Minute

	// HeaderRateLimit is the delay between a header probe and the
	// following body request sent to the same peer.
	HeaderRateLimit = 100 * time.Millisecond

	// WatchdogInterval is the tick rate of the request tracker's dispatcher.
	WatchdogInterval = 10 * time.Second

	// MinVerifiedPeers is the minimum number of verified peers required
	// before a batch is dispatched.
	MinVerifiedPeers = 2

	// MaxInvalidCount is the bad-block count at which BestSeen.RecordInvalid
	// reports true (its count is reset by Update) and the Ethereum pool logs
	// an error (its count is never reset). Neither restarts the rover or
	// disconnects a peer.
	MaxInvalidCount = 8

	// MaxBatchEthereum is the largest Ethereum resync batch, in blocks.
	MaxBatchEthereum = 128

	// MaxBatchLisk is the largest Lisk resync batch, in blocks.
	MaxBatchLisk = 100

	// BlockCacheSizeEthereum is the Ethereum block LRU capacity.
	BlockCacheSizeEthereum = 118

	// BlockCacheSizeLisk is the Lisk block LRU capacity.
	BlockCacheSizeLisk = 200

	// TxCacheSize is the transaction LRU capacity, shared by both chains.
	TxCacheSize = 2000
)
