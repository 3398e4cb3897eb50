package rpcclient

import (
	"context"

	"github.com/chainrover/rover/chain"
	roverErrors "github.com/chainrover/rover/common/errors"
	"github.com/chainrover/rover/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// DirectiveKind tags an inbound message on the rover.join stream.
type DirectiveKind string

const (
	RequestResync DirectiveKind = "REQUEST_RESYNC"
	FetchBlock    DirectiveKind = "FETCH_BLOCK"
)

// Directive is one message delivered over the rover.join subscription.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	// Populated when Kind == RequestResync.
	Intervals   []chain.Interval   `json:"intervals,omitempty"`
	KnownLatest *chain.KnownLatest `json:"knownLatest,omitempty"`

	// Populated when Kind == FetchBlock.
	CurrentLastHeight  uint64 `json:"currentLastHeight,omitempty"`
	PreviousLastHeight uint64 `json:"previousLastHeight,omitempty"`
}

// SyncStatus is the payload of rover.reportSyncStatus.
type SyncStatus struct {
	Chain chain.ChainTag `json:"chain"`
	OK    bool           `json:"ok"`
}

// wireUnifiedBlock is the over-the-wire shape of chain.UnifiedBlock; the
// common.Hash/ChainTag field types marshal fine as-is via
// encoding/json's default struct tags, this type exists only to pin the
// field names independent of chain.UnifiedBlock's Go identifiers.
type wireUnifiedBlock struct {
	Chain      chain.ChainTag           `json:"chain"`
	Hash       common.Hash              `json:"hash"`
	ParentHash common.Hash              `json:"parentHash"`
	Timestamp  uint64                   `json:"timestamp"`
	Height     uint64                   `json:"height"`
	MerkleRoot common.Hash              `json:"merkleRoot"`
	MarkedTxs  []chain.MarkedTransaction `json:"markedTxs"`
}

// Client is the rover-side connection to the parent coordinator. It
// mirrors go-ethereum's own eth_subscribe client pattern: rover.join is
// consumed as a subscription feed, everything else is a plain unary call.
type Client struct {
	rpc   *rpc.Client
	chain chain.ChainTag
	log   *log.RoverLog
}

// Dial connects to the parent coordinator's RPC endpoint.
func Dial(ctx context.Context, addr string, tag chain.ChainTag) (*Client, error) {
	c, err := rpc.DialContext(ctx, addr)
	if err != nil {
		return nil, roverErrors.Get(roverErrors.ErrParentUnreachable)
	}

	return &Client{rpc: c, chain: tag, log: log.GetLogger("rpcclient", true)}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() { c.rpc.Close() }

// Join subscribes to the parent's directive feed for this rover's chain
// and returns a channel of Directives, closed when the subscription ends.
func (c *Client) Join(ctx context.Context) (<-chan Directive, error) {
	ch := make(chan Directive, 16)

	sub, err := c.rpc.Subscribe(ctx, "rover", ch, "join", c.chain)
	if err != nil {
		return nil, roverErrors.Get(roverErrors.ErrParentUnreachable)
	}

	go func() {
		defer close(ch)
		err := <-sub.Err()
		if err != nil {
			c.log.Warn("rover.join subscription ended: %v", err)
		}
	}()

	return ch, nil
}

// CollectBlock emits one validated unified block upstream.
func (c *Client) CollectBlock(ctx context.Context, b chain.UnifiedBlock) error {
	wire := wireUnifiedBlock{
		Chain:      b.Chain,
		Hash:       b.Hash,
		ParentHash: b.ParentHash,
		Timestamp:  b.Timestamp,
		Height:     b.Height,
		MerkleRoot: b.MerkleRoot,
		MarkedTxs:  b.MarkedTxs,
	}

	if err := c.rpc.CallContext(ctx, nil, "rover_collectBlock", wire); err != nil {
		return roverErrors.Create(roverErrors.ErrCollectBlockFailed, b.Height, err)
	}
	return nil
}

// ReportSyncStatus reports a resync session's outcome, exactly once per session.
func (c *Client) ReportSyncStatus(ctx context.Context, ok bool) error {
	status := SyncStatus{Chain: c.chain, OK: ok}
	if err := c.rpc.CallContext(ctx, nil, "rover_reportSyncStatus", status); err != nil {
		return roverErrors.Create(roverErrors.ErrReportSyncStatusFailed, err)
	}
	return nil
}

// IsBeforeSettleHeight implements unified.SettlementChecker against the parent.
func (c *Client) IsBeforeSettleHeight(from, to common.Address, tag chain.ChainTag) bool {
	var result bool
	if err := c.rpc.CallContext(context.Background(), &result, "rover_isBeforeSettleHeight", from, to, tag); err != nil {
		c.log.Warn("isBeforeSettleHeight call failed, treating as not settled: %v", err)
		return false
	}
	return result
}
