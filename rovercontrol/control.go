package rovercontrol

import (
	"context"
	"sync"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/log"
	"github.com/chainrover/rover/metrics"
	"github.com/chainrover/rover/rpcclient"
	"github.com/chainrover/rover/syncer"
)

// maxBackoffTicks bounds the module-level skip list the source used;
// here it is a per-rover counter owned by the control loop instead,
// incremented on a collectBlock failure and decremented on every tick
// until it reaches zero again.
const maxBackoffTicks = 5

// Resyncer is implemented by the chain-specific glue (ethrover or
// liskrover): turn a planned batch sequence into a dispatched tracker
// session, and turn a FETCH_BLOCK range into an immediate batch.
type Resyncer interface {
	StartSession(batches []chain.Batch)
	EnqueueImmediate(batch chain.Batch)
}

// Loop is the rover control loop (C8): it consumes directives from the
// parent, drives the sync planner and the chain-specific resyncer, and
// forwards validated unified blocks upstream.
type Loop struct {
	chain      chain.ChainTag
	client     *rpcclient.Client
	planner    *syncer.Planner
	resync     Resyncer
	maxBatch   uint64
	standalone bool

	log *log.RoverLog

	lock    sync.Mutex
	backoff int
}

// NewLoop builds a control loop for one rover instance. client is nil in
// standalone mode, in which case directives are never received and
// collected blocks are only logged.
func NewLoop(tag chain.ChainTag, client *rpcclient.Client, planner *syncer.Planner, resync Resyncer, maxBatch uint64, standalone bool) *Loop {
	return &Loop{
		chain:      tag,
		client:     client,
		planner:    planner,
		resync:     resync,
		maxBatch:   maxBatch,
		standalone: standalone,
		log:        log.GetLogger("rovercontrol", true),
	}
}

// Run opens the parent directive stream and dispatches inbound messages
// until ctx is cancelled or the stream ends. In standalone mode (or with no
// client) Run opens no stream and only blocks until ctx is cancelled;
// CollectBlock/ReportSyncStatus below then only log.
// tip is called fresh for every directive rather than fixed at Run's call
// time, so a RequestResync arriving long after startup still plans against
// the rover's current best-seen height rather than a stale snapshot.
func (l *Loop) Run(ctx context.Context, tip func() uint64) error {
	if l.standalone || l.client == nil {
		<-ctx.Done()
		return nil
	}

	directives, err := l.client.Join(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-directives:
			if !ok {
				return nil
			}
			l.handleDirective(d, tip())
		}
	}
}

func (l *Loop) handleDirective(d rpcclient.Directive, tip uint64) {
	switch d.Kind {
	case rpcclient.RequestResync:
		l.onRequestResync(d, tip)
	case rpcclient.FetchBlock:
		l.onFetchBlock(d)
	default:
		l.log.Warn("dropping unknown directive kind %q", d.Kind)
	}
}

func (l *Loop) onRequestResync(d rpcclient.Directive, tip uint64) {
	directive := chain.ResyncDirective{Intervals: d.Intervals, KnownLatest: d.KnownLatest}
	batches := l.planner.Plan(directive, tip)
	if len(batches) == 0 {
		return
	}

	l.resync.StartSession(batches)
}

// onFetchBlock implements the FETCH_BLOCK contract: fetch
// [previousLast+1, currentLast], clamped to the newest maxBatch blocks
// when the range is wider than that - recency is preferred over
// completeness for this directive.
func (l *Loop) onFetchBlock(d rpcclient.Directive) {
	from := d.PreviousLastHeight + 1
	to := d.CurrentLastHeight

	if to < from {
		return
	}

	if to-from+1 > l.maxBatch {
		from = to - l.maxBatch + 1
	}

	l.resync.EnqueueImmediate(chain.Batch{
		Interval:   chain.Interval{From: from, To: to},
		Descending: true,
	})
}

// CollectBlock forwards one unified block upstream, or just logs it in
// standalone mode. A collectBlock failure arms the back-off counter
// instead of retrying immediately.
func (l *Loop) CollectBlock(ctx context.Context, b chain.UnifiedBlock) {
	if l.standalone || l.client == nil {
		l.log.Info("standalone: observed block %s/%d", l.chain, b.Height)
		return
	}

	if l.backoffActive() {
		l.log.Debug("skipping collectBlock for height %d, back-off active", b.Height)
		return
	}

	if err := l.client.CollectBlock(ctx, b); err != nil {
		l.log.Warn("collectBlock failed: %v", err)
		metrics.UpstreamFailureMeter.Mark(1)
		l.arm()
		return
	}

	metrics.BlocksCollectedMeter.Mark(1)
}

// ReportSyncStatus reports a resync session's outcome exactly once; never
// retried on failure per the error-handling contract - a later resync
// will emit a fresh status.
func (l *Loop) ReportSyncStatus(ctx context.Context, ok bool) {
	if l.standalone || l.client == nil {
		l.log.Info("standalone: resync completed ok=%v", ok)
		return
	}

	if err := l.client.ReportSyncStatus(ctx, ok); err != nil {
		l.log.Warn("reportSyncStatus failed: %v", err)
		metrics.UpstreamFailureMeter.Mark(1)
	}
}

func (l *Loop) backoffActive() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.backoff > 0
}

func (l *Loop) arm() {
	l.lock.Lock()
	if l.backoff < maxBackoffTicks {
		l.backoff++
	}
	l.lock.Unlock()
}

// Tick decrements the back-off counter; RunBackoffTicker calls it once per
// interval.
func (l *Loop) Tick() {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.backoff > 0 {
		l.backoff--
	}
}

// RunBackoffTicker decrements the back-off counter on a fixed interval:
// the Ethereum rover ticks it every chain.WatchdogInterval, the Lisk rover
// once per block interval, the period of its live poll.
func (l *Loop) RunBackoffTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}
