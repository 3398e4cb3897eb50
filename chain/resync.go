package chain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Interval is an inclusive [From, To] block-height range, From <= To.
type Interval struct {
	From uint64
	To   uint64
}

// Batch is a single dispatchable unit of work handed from the sync planner
// to the request tracker: a height range together with the order its
// blocks should be requested in.
type Batch struct {
	Interval
	// Descending is true when the batch should be requested high-to-low,
	// as Ethereum resync batches are.
	Descending bool
}

// KnownLatest is a caller-supplied "last block we already have" reference,
// used to decide whether a gap needs to be prepended to a resync plan.
type KnownLatest struct {
	Height    uint64
	Hash      common.Hash
	Timestamp time.Time
}

// ResyncDirective is the input to the sync planner: either an explicit set
// of intervals to fetch, or nothing (meaning "follow the tip"), optionally
// together with a KnownLatest reference used to detect a catch-up gap.
type ResyncDirective struct {
	Intervals   []Interval
	KnownLatest *KnownLatest
}
