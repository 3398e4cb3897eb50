package syncer

import (
	"time"

	"github.com/chainrover/rover/chain"
)

// Planner turns a resync directive into an ordered sequence of batches,
// splitting any interval wider than MaxBatch into MaxBatch-sized pieces.
type Planner struct {
	MaxBatch         uint64
	SecondsPerBlock  uint64
	ResyncPeriodSecs uint64
	now              func() time.Time
}

// NewPlanner builds a Planner for one chain's batch size and block time.
func NewPlanner(maxBatch, secondsPerBlock, resyncPeriodSecs uint64) *Planner {
	return &Planner{
		MaxBatch:         maxBatch,
		SecondsPerBlock:  secondsPerBlock,
		ResyncPeriodSecs: resyncPeriodSecs,
		now:              time.Now,
	}
}

// Plan computes the ordered batch sequence for a directive given the
// current remote tip height. The head batch is the first element; callers
// dispatch it immediately and hand the rest to a Tracker.
func (p *Planner) Plan(directive chain.ResyncDirective, tip uint64) []chain.Batch {
	var batches []chain.Batch

	if len(directive.Intervals) > 0 {
		intervals := append([]chain.Interval(nil), directive.Intervals...)
		sortIntervalsDescending(intervals)

		for _, iv := range intervals {
			batches = append(batches, p.splitDescending(iv)...)
		}
	} else {
		batches = append(batches, p.defaultWindow(tip)...)
	}

	if directive.KnownLatest != nil {
		kl := directive.KnownLatest
		// The source treats ROVER_SECONDS_PER_BLOCK as a millisecond
		// threshold in this one check; the intended staleness window is
		// secondsPerBlock x 2 (seconds), not secondsPerBlock itself.
		staleAfter := time.Duration(p.SecondsPerBlock) * 2 * time.Second
		if p.now().Sub(kl.Timestamp) > staleAfter {
			gap := p.splitDescending(chain.Interval{From: kl.Height, To: tip})
			batches = append(gap, batches...)
		}
	}

	return batches
}

// defaultWindow computes the "no intervals supplied" live-follow window:
// ResyncPeriodSecs / SecondsPerBlock blocks ending at tip.
func (p *Planner) defaultWindow(tip uint64) []chain.Batch {
	if p.SecondsPerBlock == 0 {
		return nil
	}

	span := p.ResyncPeriodSecs / p.SecondsPerBlock
	from := uint64(0)
	if tip > span {
		from = tip - span
	}

	return p.splitDescending(chain.Interval{From: from, To: tip})
}

// splitDescending splits [from,to] into MaxBatch-sized sub-intervals,
// emitted in descending-from-block order, each batch requested high-to-low.
func (p *Planner) splitDescending(iv chain.Interval) []chain.Batch {
	if iv.To < iv.From {
		return nil
	}

	var batches []chain.Batch
	for to := iv.To; ; {
		from := iv.From
		if to-iv.From+1 > p.MaxBatch {
			from = to - p.MaxBatch + 1
		}

		batches = append(batches, chain.Batch{
			Interval:   chain.Interval{From: from, To: to},
			Descending: true,
		})

		if from == iv.From {
			break
		}

		to = from - 1
	}

	return batches
}

func sortIntervalsDescending(intervals []chain.Interval) {
	for i := 1; i < len(intervals); i++ {
		for j := i; j > 0 && intervals[j-1].From < intervals[j].From; j-- {
			intervals[j-1], intervals[j] = intervals[j], intervals[j-1]
		}
	}
}
