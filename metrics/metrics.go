package metrics

import (
	metrics "github.com/rcrowley/go-metrics"
)

// Counters registered against the default go-metrics registry. A rover
// reports these through whatever metrics.Registry consumer the deployment
// wires up (e.g. an exp/expvar or statsd reporter); the rover itself only
// produces the numbers.
var (
	// BlocksObservedMeter counts foreign-chain blocks accepted by a validator.
	BlocksObservedMeter = metrics.GetOrRegisterMeter("rover/blocks/observed", nil)

	// BlocksRejectedMeter counts foreign-chain blocks rejected by a validator.
	BlocksRejectedMeter = metrics.GetOrRegisterMeter("rover/blocks/rejected", nil)

	// BlocksCollectedMeter counts unified blocks successfully emitted upstream.
	BlocksCollectedMeter = metrics.GetOrRegisterMeter("rover/blocks/collected", nil)

	// PeersVerifiedCounter counts peers that passed the fork probe; it is
	// not decremented when a verified peer drops.
	PeersVerifiedCounter = metrics.GetOrRegisterCounter("rover/peers/verified", nil)

	// PeersDroppedMeter counts peer disconnects, of any cause.
	PeersDroppedMeter = metrics.GetOrRegisterMeter("rover/peers/dropped", nil)

	// BatchDispatchTimer times the round trip of a sync batch from dispatch to completion.
	BatchDispatchTimer = metrics.GetOrRegisterTimer("rover/sync/batchDispatch", nil)

	// UpstreamFailureMeter counts failed collectBlock/reportSyncStatus calls to the parent.
	UpstreamFailureMeter = metrics.GetOrRegisterMeter("rover/upstream/failures", nil)
)
