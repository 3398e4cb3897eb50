package rovercontrol

import (
	"context"

	"github.com/chainrover/rover/ethrover"
	"github.com/chainrover/rover/liskrover"
	"github.com/chainrover/rover/syncer"
	"github.com/chainrover/rover/unified"
)

// EthereumSink adapts a Loop into ethrover.BlockSink: every validated
// block is translated and marked, then forwarded upstream.
type EthereumSink struct {
	Loop    *Loop
	Marker  *unified.Marker
	Tracker *syncer.Tracker
}

func (s *EthereumSink) OnBlock(b *ethrover.Block, fromInitialSync bool) {
	u := unified.BuildEthereum(b, s.Marker)
	s.Loop.CollectBlock(context.Background(), u)
}

func (s *EthereumSink) OnBatchHeight(height uint64) {
	if s.Tracker != nil {
		s.Tracker.OnHeightCompleted(height)
	}
}

// LiskSink adapts a Loop into liskrover.BlockSink.
type LiskSink struct {
	Loop   *Loop
	Marker *unified.Marker
}

func (s *LiskSink) OnBlock(b *liskrover.Block) {
	u := unified.BuildLisk(b, s.Marker)
	s.Loop.CollectBlock(context.Background(), u)
}

func (s *LiskSink) OnBatchHeight(height uint64) {
	// liskrover.Driver completes heights on the tracker itself after each
	// fetched page; OnBatchHeight exists only to satisfy the BlockSink
	// contract shared with the Ethereum variant.
}
