package syncer

import (
	"sync"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/event"
	"github.com/chainrover/rover/log"
	"github.com/chainrover/rover/metrics"
	set "gopkg.in/fatih/set.v0"
	"gopkg.in/karalabe/cookiejar.v2/collections/prque"
)

// PeerSource selects verified peers eligible to serve a request.
type PeerSource interface {
	SelectPeers(k int) []PeerRequester
}

// PeerRequester is the subset of a peer session the tracker needs to
// dispatch a header request.
type PeerRequester interface {
	RequestHeaders(from, count uint64, reverse bool) error
}

type trackerState int

const (
	stateIdle trackerState = iota
	stateAwaiting
)

// Tracker is the request tracker (C5): it owns requested-heights and the
// remaining-batches queue for a single resync session, and watches for
// batch completion to drive session-level reportSyncStatus semantics.
type Tracker struct {
	lock sync.Mutex

	peers PeerSource
	log   *log.RoverLog

	state            trackerState
	requestedHeights set.Interface
	remaining        *prque.Prque
	seq              int64
	batchStart       time.Time

	onSyncDone func(ok bool)

	quitCh chan struct{}
	wg     sync.WaitGroup
}

// NewTracker creates a tracker bound to a peer source, firing
// onSyncDone(true) exactly once when a resync session completes. A batch
// that cannot be dispatched is retried, never reported as onSyncDone(false).
func NewTracker(peers PeerSource, log *log.RoverLog, onSyncDone func(ok bool)) *Tracker {
	t := &Tracker{
		peers:            peers,
		log:              log,
		requestedHeights: set.New(set.ThreadSafe),
		remaining:        prque.New(),
		onSyncDone:       onSyncDone,
		quitCh:           make(chan struct{}),
	}

	t.wg.Add(1)
	go t.watchdog()

	return t
}

// Close stops the watchdog loop.
func (t *Tracker) Close() {
	select {
	case <-t.quitCh:
	default:
		close(t.quitCh)
	}
	t.wg.Wait()
}

// StartSession replaces any in-progress session's batch queue with batches,
// dispatching the head batch immediately.
func (t *Tracker) StartSession(batches []chain.Batch) {
	t.lock.Lock()
	t.remaining = prque.New()
	for i, b := range batches {
		t.remaining.Push(b, float32(-i))
		t.seq++
	}
	t.lock.Unlock()

	t.dispatchNext()
}

// EnqueueImmediate schedules a single batch ahead of anything queued -
// used for live gap-fills and FETCH_BLOCK. It is dispatched right away
// only when no batch is outstanding; otherwise it goes out as soon as the
// outstanding batch completes.
func (t *Tracker) EnqueueImmediate(b chain.Batch) {
	t.lock.Lock()
	t.seq++
	t.remaining.Push(b, float32(t.seq))
	t.lock.Unlock()

	t.dispatchNext()
}

func (t *Tracker) watchdog() {
	defer t.wg.Done()

	ticker := time.NewTicker(chain.WatchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.dispatchNext()
		case <-t.quitCh:
			return
		}
	}
}

func (t *Tracker) dispatchNext() {
	t.lock.Lock()

	if t.state != stateIdle || t.remaining.Empty() {
		t.lock.Unlock()
		return
	}

	v, _ := t.remaining.Pop()
	batch := v.(chain.Batch)

	peers := t.peers.SelectPeers(chain.MinVerifiedPeers)
	if len(peers) < chain.MinVerifiedPeers {
		t.remaining.Push(batch, 1<<30)
		t.lock.Unlock()
		t.log.Debug("postponing batch dispatch, too few verified peers")
		return
	}

	for h := batch.From; h <= batch.To; h++ {
		t.requestedHeights.Add(h)
	}
	t.state = stateAwaiting
	t.batchStart = time.Now()
	t.lock.Unlock()

	count := batch.To - batch.From + 1
	for _, p := range peers {
		if err := p.RequestHeaders(batch.From, count, batch.Descending); err != nil {
			t.log.Warn("request headers failed: %v", err)
		}
	}
}

// OnHeightCompleted removes h from requested-heights (called once its body
// has arrived and validated) and checks whether the batch and session ended.
// A height that is not outstanding is ignored, so a batch fanned out to
// several peers completes, and reports, only once.
func (t *Tracker) OnHeightCompleted(h uint64) {
	t.lock.Lock()
	if !t.requestedHeights.Has(h) {
		t.lock.Unlock()
		return
	}
	t.requestedHeights.Remove(h)

	empty := t.requestedHeights.Size() == 0
	if empty {
		t.state = stateIdle
		metrics.BatchDispatchTimer.UpdateSince(t.batchStart)
	}
	remainingEmpty := t.remaining.Empty()
	t.lock.Unlock()

	if empty {
		if remainingEmpty {
			event.ResyncDoneEventManager.Fire(true)
			if t.onSyncDone != nil {
				t.onSyncDone(true)
			}
			return
		}

		t.dispatchNext()
	}
}

// IsHeightRequested reports whether h is currently outstanding.
func (t *Tracker) IsHeightRequested(h uint64) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.requestedHeights.Has(h)
}
