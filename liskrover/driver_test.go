package liskrover

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/log"
	"github.com/chainrover/rover/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu        sync.Mutex
	blocks    []uint64
	completed []uint64
}

func (f *fakeSink) OnBlock(b *Block) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks = append(f.blocks, b.Height())
}

func (f *fakeSink) OnBatchHeight(h uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, h)
}

func (f *fakeSink) seenBlocks() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64{}, f.blocks...)
}

// fakeLiskServer pages blocks descending from tip the way the real Lisk
// /blocks endpoint does: offset 0 is the newest block, offset N skips the N
// newest. badHeight, if nonzero, declares one extra transaction than
// /transactions actually returns for that height, so Validate rejects it.
func fakeLiskServer(t *testing.T, tip uint64, badHeight uint64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blocks":
			limit, _ := strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64)
			offset, _ := strconv.ParseUint(r.URL.Query().Get("offset"), 10, 64)

			var blocks []wireBlock
			for i := uint64(0); i < limit; i++ {
				if offset+i > tip-1 {
					break
				}
				h := tip - offset - i
				if h < 1 {
					break
				}
				numTxs := uint64(0)
				if h == badHeight {
					numTxs = 1
				}
				blocks = append(blocks, wireBlock{
					ID:          strconv.FormatUint(h, 10),
					Height:      h,
					NumberOfTxs: numTxs,
				})
			}
			body, _ := json.Marshal(blocksEnvelope{Blocks: blocks})
			w.Write(body)
		case "/transactions":
			w.Write([]byte(`{"data":[]}`))
		}
	}))
}

func Test_Driver_FetchBatch_UsesTipDerivedOffsetForHistoricalRange(t *testing.T) {
	srv := fakeLiskServer(t, 110, 0)
	defer srv.Close()

	sink := &fakeSink{}
	driver := NewDriver(Config{Nodes: []string{srv.URL}}, 0, sink)

	driver.fetchBatch(101, 9)

	assert.ElementsMatch(t, []uint64{101, 102, 103, 104, 105, 106, 107, 108, 109}, sink.seenBlocks())
}

func Test_Driver_FetchBatch_DedupesAcrossRepeatedFetches(t *testing.T) {
	srv := fakeLiskServer(t, 110, 0)
	defer srv.Close()

	sink := &fakeSink{}
	driver := NewDriver(Config{Nodes: []string{srv.URL}}, 0, sink)

	driver.fetchBatch(101, 9)
	driver.fetchBatch(101, 9)

	assert.Len(t, sink.seenBlocks(), 9)
}

func Test_Driver_FetchBatch_SkipsFetchWhenRangeAheadOfTip(t *testing.T) {
	srv := fakeLiskServer(t, 110, 0)
	defer srv.Close()

	sink := &fakeSink{}
	driver := NewDriver(Config{Nodes: []string{srv.URL}}, 0, sink)

	driver.fetchBatch(111, 5)

	assert.Empty(t, sink.seenBlocks())
}

func Test_Driver_TrackerSession_LeavesInvalidHeightOutstandingAndCompletesTheRest(t *testing.T) {
	srv := fakeLiskServer(t, 110, 105)
	defer srv.Close()

	sink := &fakeSink{}
	driver := NewDriver(Config{Nodes: []string{srv.URL, srv.URL}}, 0, sink)

	tracker := syncer.NewTracker(driver, log.GetLogger("driver-test", true), func(ok bool) {})
	defer tracker.Close()
	driver.SetTracker(tracker)

	tracker.StartSession([]chain.Batch{{Interval: chain.Interval{From: 101, To: 109}}})

	require.Eventually(t, func() bool {
		return len(sink.seenBlocks()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)

	assert.True(t, tracker.IsHeightRequested(105))
	for _, h := range []uint64{101, 102, 103, 104, 106, 107, 108, 109} {
		assert.False(t, tracker.IsHeightRequested(h), "height %d should have completed", h)
	}
}
