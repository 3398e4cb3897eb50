package liskrover

import (
	"context"
	"fmt"
	"time"

	"github.com/chainrover/rover/chain"
	roverCommon "github.com/chainrover/rover/common"
	"github.com/chainrover/rover/log"
	"github.com/chainrover/rover/metrics"
	"github.com/chainrover/rover/syncer"
	lru "github.com/hashicorp/golang-lru"
)

// BlockSink receives validated Lisk blocks. Implemented by the control
// loop (C8), mirroring ethrover.BlockSink's role for the Ethereum variant.
type BlockSink interface {
	OnBlock(b *Block)
	OnBatchHeight(height uint64)
}

// Driver is the HTTP-polling stand-in for C1/C2 on the Lisk variant: it
// owns the REST client and the node pool, and implements
// syncer.PeerSource/PeerRequester so C4's Planner and C5's Tracker work
// unmodified against an HTTP API instead of devp2p peers - each
// configured node plays the role a devp2p peer plays for Ethereum.
type Driver struct {
	client *Client
	nodes  []string

	best       *chain.BestSeen
	tracker    *syncer.Tracker
	blockCache *lru.Cache

	sink BlockSink
	log  *log.RoverLog

	secondsPerBlock uint64
}

// NewDriver constructs a Lisk polling driver.
func NewDriver(cfg Config, secondsPerBlock uint64, sink BlockSink) *Driver {
	return &Driver{
		client:          NewClient(cfg),
		nodes:           cfg.Nodes,
		best:            &chain.BestSeen{},
		blockCache:      roverCommon.MustNewCache(chain.BlockCacheSizeLisk),
		sink:            sink,
		log:             log.GetLogger("liskrover", true),
		secondsPerBlock: secondsPerBlock,
	}
}

// SetTracker wires the request tracker after construction, as ethrover.Pool does.
func (d *Driver) SetTracker(t *syncer.Tracker) { d.tracker = t }

func (d *Driver) BestSeen() *chain.BestSeen { return d.best }

// SelectPeers implements syncer.PeerSource: each entry of the configured
// node list (duplicates included) is one "peer" eligible to serve a batch,
// and the first k entries are returned, so MinVerifiedPeers behaves the
// same way it does for the Ethereum variant's devp2p peer pool.
func (d *Driver) SelectPeers(k int) []syncer.PeerRequester {
	if len(d.nodes) < k {
		return nil
	}

	selected := make([]syncer.PeerRequester, 0, k)
	for i := 0; i < k; i++ {
		selected = append(selected, &nodeRequester{driver: d, node: d.nodes[i]})
	}
	return selected
}

// nodeRequester adapts one Lisk node into syncer.PeerRequester.
type nodeRequester struct {
	driver *Driver
	node   string
}

// RequestHeaders translates a tracker-issued height range into a
// paginated GET /blocks?limit=&offset=. The request goes through the
// driver's shared Client, to whichever node it currently has selected, not
// to r.node. Lisk has no by-height query: the node's /blocks endpoint pages
// descending from its current tip at offset 0, so fetchBatch first
// resolves that tip and then derives the offset that lands on
// [from, from+count-1].
func (r *nodeRequester) RequestHeaders(from, count uint64, reverse bool) error {
	go r.driver.fetchBatch(from, count)
	return nil
}

func (d *Driver) fetchBatch(from, count uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	to := from + count - 1

	tip, err := d.tipHeight(ctx)
	if err != nil {
		d.log.Warn("lisk tip lookup failed for range [%d,%d]: %v", from, to, err)
		metrics.UpstreamFailureMeter.Mark(1)
		return
	}

	if tip < to {
		d.log.Debug("lisk batch [%d,%d] is ahead of current chain tip %d, retrying later", from, to, tip)
		time.AfterFunc(chain.HeaderRateLimit, func() { d.fetchBatch(from, count) })
		return
	}

	blocks, err := d.client.FetchBlocks(ctx, count, tip-to)
	if err != nil {
		d.log.Warn("lisk fetchBlocks failed for range [%d,%d]: %v", from, to, err)
		metrics.UpstreamFailureMeter.Mark(1)
		return
	}

	completed := make(map[uint64]bool, len(blocks))
	for _, b := range blocks {
		if b.Height() < from || b.Height() > to {
			continue
		}
		if d.handleBlock(b, true) {
			completed[b.Height()] = true
		}
	}

	d.completeHeights(from, to, completed)
}

// tipHeight resolves the node's current chain height via a single-block page.
func (d *Driver) tipHeight(ctx context.Context) (uint64, error) {
	blocks, err := d.client.FetchBlocks(ctx, 1, 0)
	if err != nil {
		return 0, err
	}
	if len(blocks) == 0 {
		return 0, fmt.Errorf("lisk node returned no blocks")
	}
	return blocks[0].Height(), nil
}

// completeHeights reports exactly the heights in [from,to] that
// handleBlock accepted (new or already-seen) as complete, so
// reportSyncStatus(true) never fires for a height this driver never
// actually retrieved or could never validate. A height handleBlock
// rejected is left outstanding for a future batch to retry against a
// different node.
func (d *Driver) completeHeights(from, to uint64, completed map[uint64]bool) {
	if d.tracker == nil {
		return
	}

	for h := from; h <= to; h++ {
		if completed[h] {
			d.tracker.OnHeightCompleted(h)
		}
	}
}

// handleBlock validates and emits b, reporting whether the height is now
// resolved (accepted or already cached) and should not be re-requested.
func (d *Driver) handleBlock(b *Block, fromInitialSync bool) bool {
	if d.blockCache.Contains(b.Hash()) {
		return true
	}

	if !Validate(b) {
		d.best.RecordInvalid()
		metrics.BlocksRejectedMeter.Mark(1)
		return false
	}

	d.blockCache.Add(b.Hash(), struct{}{})
	d.best.Update(b.Height(), b.Hash().Bytes())
	metrics.BlocksObservedMeter.Mark(1)
	d.sink.OnBlock(b)

	if fromInitialSync {
		d.sink.OnBatchHeight(b.Height())
	}

	return true
}

// PollLive runs the live-follow loop (C8's non-resync mode for Lisk):
// every secondsPerBlock it fetches the newest page and emits any block
// taller than the last one seen.
func (d *Driver) PollLive(ctx context.Context) {
	if d.secondsPerBlock == 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(d.secondsPerBlock) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.pollOnce(ctx)
		}
	}
}

func (d *Driver) pollOnce(ctx context.Context) {
	blocks, err := d.client.FetchBlocks(ctx, pageLimit, 0)
	if err != nil {
		d.log.Warn("lisk live poll failed: %v", err)
		metrics.UpstreamFailureMeter.Mark(1)
		return
	}

	last := d.best.Height()
	for _, b := range blocks {
		if b.Height() <= last {
			continue
		}
		d.handleBlock(b, false)
	}
}
