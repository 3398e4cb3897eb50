package unified

import (
	"math/big"

	"github.com/chainrover/rover/chain"
	roverCommon "github.com/chainrover/rover/common"
	"github.com/ethereum/go-ethereum/common"
)

// SettlementChecker asks the external settlement service whether a
// (from,to) pair is currently inside a cross-chain settlement window.
// Nil in standalone mode, in which case settlement lookups are skipped.
type SettlementChecker interface {
	IsBeforeSettleHeight(from, to common.Address, chain chain.ChainTag) bool
}

// Marker implements the per-transaction marking policy (C7).
type Marker struct {
	Chain          chain.ChainTag
	DesignatedKey  *common.Address // nil disables "emb" marking for this chain
	Settlement     SettlementChecker
	IsValueTransfer func(chain.ForeignTransaction) bool
}

// Mark evaluates the marking policy for t and returns the resulting
// MarkedTransaction and whether t should be emitted at all.
func (m *Marker) Mark(t chain.ForeignTransaction, blockHeight uint64, index int) (chain.MarkedTransaction, bool) {
	designated := m.DesignatedKey != nil && m.IsValueTransfer != nil &&
		m.IsValueTransfer(t) && t.From() == *m.DesignatedKey

	settled := false
	if !designated && m.Settlement != nil {
		settled = m.Settlement.IsBeforeSettleHeight(t.From(), t.To(), m.Chain)
	}

	if !designated && !settled {
		return chain.MarkedTransaction{}, false
	}

	tokenTag := string(m.Chain)
	if designated {
		tokenTag = roverCommon.DesignatedAssetTag
	}

	return chain.MarkedTransaction{
		Chain:       m.Chain,
		TokenTag:    tokenTag,
		From:        t.From(),
		To:          t.To(),
		ValueBytes:  valueBytes(t.Value()),
		BlockHeight: blockHeight,
		Index:       index,
		TxHash:      t.Hash(),
	}, true
}

func valueBytes(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return roverCommon.CopyBytes(v.Bytes())
}
