package syncer

import (
	"testing"
	"time"

	"github.com/chainrover/rover/chain"
	"github.com/stretchr/testify/assert"
)

func Test_Planner_SplitExactBatch(t *testing.T) {
	p := NewPlanner(128, 15, 3600)

	batches := p.Plan(chain.ResyncDirective{
		Intervals: []chain.Interval{{From: 1000, To: 1127}},
	}, 2000)

	assert.Len(t, batches, 1)
	assert.Equal(t, uint64(1000), batches[0].From)
	assert.Equal(t, uint64(1127), batches[0].To)
}

func Test_Planner_SplitOverBatch(t *testing.T) {
	p := NewPlanner(128, 15, 3600)

	batches := p.Plan(chain.ResyncDirective{
		Intervals: []chain.Interval{{From: 1000, To: 1128}},
	}, 2000)

	assert.Len(t, batches, 2)
	assert.Equal(t, uint64(1128), batches[0].To)
	assert.Equal(t, uint64(1001), batches[0].From)
	assert.Equal(t, uint64(1000), batches[1].To)
	assert.Equal(t, uint64(1000), batches[1].From)
}

func Test_Planner_KnownLatestGapPrepended(t *testing.T) {
	p := NewPlanner(128, 15, 3600)
	p.now = func() time.Time { return time.Unix(10000, 0) }

	batches := p.Plan(chain.ResyncDirective{
		Intervals: []chain.Interval{{From: 1000, To: 1010}},
		KnownLatest: &chain.KnownLatest{
			Height:    1900,
			Timestamp: time.Unix(0, 0),
		},
	}, 2000)

	assert.True(t, len(batches) >= 2)
	assert.Equal(t, uint64(1900), batches[0].From)
	assert.Equal(t, uint64(2000), batches[0].To)
}

func Test_Planner_DefaultWindow(t *testing.T) {
	p := NewPlanner(128, 15, 3600)

	batches := p.Plan(chain.ResyncDirective{}, 2000)

	assert.NotEmpty(t, batches)
	assert.Equal(t, uint64(2000), batches[0].To)
}
