package rpcclient

import (
	"context"
	"testing"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCoordinator stands in for the parent coordinator's "rover" RPC
// namespace, exercised over an in-process rpc.Client the same way
// go-ethereum's own rpc package tests its subscription support.
type fakeCoordinator struct {
	collected  []uint64
	statuses   []bool
	settleBack bool
}

func (f *fakeCoordinator) CollectBlock(wire wireUnifiedBlock) error {
	f.collected = append(f.collected, wire.Height)
	return nil
}

func (f *fakeCoordinator) ReportSyncStatus(status SyncStatus) error {
	f.statuses = append(f.statuses, status.OK)
	return nil
}

func (f *fakeCoordinator) IsBeforeSettleHeight(from, to common.Address, tag chain.ChainTag) bool {
	return f.settleBack
}

func (f *fakeCoordinator) Join(ctx context.Context, tag chain.ChainTag) (*rpc.Subscription, error) {
	notifier, supported := rpc.NotifierFromContext(ctx)
	if !supported {
		return &rpc.Subscription{}, rpc.ErrNotificationsUnsupported
	}

	sub := notifier.CreateSubscription()
	go func() {
		notifier.Notify(sub.ID, Directive{Kind: FetchBlock, CurrentLastHeight: 10, PreviousLastHeight: 5})
	}()

	return sub, nil
}

func dialFakeCoordinator(t *testing.T, coord *fakeCoordinator) *Client {
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("rover", coord))

	inproc := rpc.DialInProc(server)
	return &Client{rpc: inproc, chain: chain.TagEthereum, log: log.GetLogger("rpcclient-test", true)}
}

func Test_Client_CollectBlock_CallsThroughToCoordinator(t *testing.T) {
	coord := &fakeCoordinator{}
	c := dialFakeCoordinator(t, coord)
	defer c.Close()

	err := c.CollectBlock(context.Background(), chain.UnifiedBlock{Height: 42})
	require.NoError(t, err)
	assert.Equal(t, []uint64{42}, coord.collected)
}

func Test_Client_ReportSyncStatus_CallsThroughToCoordinator(t *testing.T) {
	coord := &fakeCoordinator{}
	c := dialFakeCoordinator(t, coord)
	defer c.Close()

	require.NoError(t, c.ReportSyncStatus(context.Background(), true))
	assert.Equal(t, []bool{true}, coord.statuses)
}

func Test_Client_IsBeforeSettleHeight_ReturnsFalseOnCallError(t *testing.T) {
	c := &Client{rpc: rpc.DialInProc(rpc.NewServer()), chain: chain.TagEthereum, log: log.GetLogger("rpcclient-test", true)}
	defer c.Close()

	assert.False(t, c.IsBeforeSettleHeight(common.Address{}, common.Address{}, chain.TagEthereum))
}

func Test_Client_IsBeforeSettleHeight_ReturnsCoordinatorResult(t *testing.T) {
	coord := &fakeCoordinator{settleBack: true}
	c := dialFakeCoordinator(t, coord)
	defer c.Close()

	assert.True(t, c.IsBeforeSettleHeight(common.Address{}, common.Address{}, chain.TagEthereum))
}

func Test_Client_Join_DeliversDirective(t *testing.T) {
	coord := &fakeCoordinator{}
	c := dialFakeCoordinator(t, coord)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	directives, err := c.Join(ctx)
	require.NoError(t, err)

	select {
	case d := <-directives:
		assert.Equal(t, FetchBlock, d.Kind)
		assert.Equal(t, uint64(10), d.CurrentLastHeight)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for directive")
	}
}
