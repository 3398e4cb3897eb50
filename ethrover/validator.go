package ethrover

import (
	"github.com/chainrover/rover/chain"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
)

// ParentLookup resolves a previously-seen header by hash. Nothing in the
// rover calls one: validateLiveDifficulty checks a live block's difficulty
// without its parent header.
type ParentLookup func(hash [32]byte) (*types.Header, bool)

// Validate runs the stateless checks of C3 against a reconstructed block.
// live is true for blocks that did not arrive as part of an initial-sync
// batch; only those are subject to the difficulty-monotonicity check and
// can report a gap. gap is non-nil only when ok is true and best-seen
// jumped forward without the rover observing every intervening height;
// the caller is responsible for dispatching a range-fill request for it.
func Validate(b *Block, best *chain.BestSeen, live bool) (ok bool, gap *chain.Interval) {
	if !validateStructure(b) {
		return false, nil
	}
	if !live {
		return true, nil
	}
	return validateLiveDifficulty(b, best)
}

func validateStructure(b *Block) bool {
	if types.CalcUncleHash(b.Body.Uncles) != b.Header.UncleHash {
		return false
	}

	for _, tx := range b.Body.Transactions {
		if _, err := types.Sender(types.HomesteadSigner{}, tx); err != nil {
			return false
		}
	}

	return types.DeriveSha(types.Transactions(b.Body.Transactions), nil) == b.Header.TxHash
}

// validateLiveDifficulty enforces difficulty monotonicity for live (non
// initial-sync) blocks. Without maintaining a parent chain the rover
// cannot recompute the exact expected difficulty, so it only rejects
// obviously-invalid values (non-positive, or lower than the network's
// minimum difficulty); anything else is accepted as plausible.
func validateLiveDifficulty(b *Block, best *chain.BestSeen) (bool, *chain.Interval) {
	valid := b.Header.Difficulty != nil &&
		b.Header.Difficulty.Sign() > 0 &&
		b.Header.Difficulty.Cmp(params.MinimumDifficulty) >= 0

	if !valid && b.Height() <= best.Height() {
		best.RecordInvalid()
		return false, nil
	}

	prev := best.Height()
	best.Update(b.Height(), b.Hash().Bytes())

	if prev > 0 && b.Height() > prev+1 {
		return true, &chain.Interval{From: prev + 1, To: b.Height() - 1}
	}

	return true, nil
}
