package syncer

import (
	"sync"
	"testing"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/log"
	"github.com/stretchr/testify/assert"
)

type fakePeer struct {
	mu       sync.Mutex
	requests [][2]uint64
}

func (f *fakePeer) RequestHeaders(from, count uint64, reverse bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, [2]uint64{from, count})
	return nil
}

type fakePeerSource struct {
	peers []PeerRequester
}

func (f *fakePeerSource) SelectPeers(k int) []PeerRequester {
	if len(f.peers) < k {
		return nil
	}
	return f.peers
}

func Test_Tracker_DispatchAndComplete(t *testing.T) {
	peers := &fakePeerSource{peers: []PeerRequester{&fakePeer{}, &fakePeer{}}}
	done := make(chan bool, 1)

	tr := NewTracker(peers, log.GetLogger("tracker-test", true), func(ok bool) {
		done <- ok
	})
	defer tr.Close()

	tr.StartSession([]chain.Batch{{Interval: chain.Interval{From: 10, To: 12}, Descending: true}})

	assert.True(t, tr.IsHeightRequested(10))
	assert.True(t, tr.IsHeightRequested(11))
	assert.True(t, tr.IsHeightRequested(12))

	tr.OnHeightCompleted(10)
	tr.OnHeightCompleted(11)
	tr.OnHeightCompleted(12)

	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("sync status never reported")
	}
}

func Test_Tracker_PostponesWithoutEnoughPeers(t *testing.T) {
	peers := &fakePeerSource{peers: []PeerRequester{&fakePeer{}}}

	tr := NewTracker(peers, log.GetLogger("tracker-test-2", true), nil)
	defer tr.Close()

	tr.StartSession([]chain.Batch{{Interval: chain.Interval{From: 1, To: 1}, Descending: true}})

	assert.False(t, tr.IsHeightRequested(1))
}
