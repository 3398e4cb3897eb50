package liskrover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Validate_AcceptsMatchingTxCount(t *testing.T) {
	b := &Block{
		wire: wireBlock{NumberOfTxs: 2},
		txs: []*Transaction{
			{wire: wireTxData{SenderID: "1"}},
			{wire: wireTxData{SenderID: "2"}},
		},
	}

	assert.True(t, Validate(b))
}

func Test_Validate_RejectsTxCountMismatch(t *testing.T) {
	b := &Block{
		wire: wireBlock{NumberOfTxs: 2},
		txs:  []*Transaction{{wire: wireTxData{SenderID: "1"}}},
	}

	assert.False(t, Validate(b))
}

func Test_Validate_RejectsTxWithNoSenderIdentity(t *testing.T) {
	b := &Block{
		wire: wireBlock{NumberOfTxs: 1},
		txs:  []*Transaction{{wire: wireTxData{}}},
	}

	assert.False(t, Validate(b))
}

func Test_Validate_AcceptsEmptyBlock(t *testing.T) {
	b := &Block{wire: wireBlock{NumberOfTxs: 0}}
	assert.True(t, Validate(b))
}
