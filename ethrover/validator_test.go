package ethrover

import (
	"math/big"
	"testing"

	"github.com/chainrover/rover/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
)

func plainHeader(number int64, txRoot common.Hash) *types.Header {
	return &types.Header{
		Number:     big.NewInt(number),
		UncleHash:  types.CalcUncleHash(nil),
		TxHash:     txRoot,
		Difficulty: big.NewInt(0).Add(params.MinimumDifficulty, big.NewInt(1)),
	}
}

func Test_ValidateStructure_EmptyBodyMatchesDeriveSha(t *testing.T) {
	root := types.DeriveSha(types.Transactions(nil), nil)
	b := &Block{Header: plainHeader(10, root), Body: &types.Body{}}

	assert.True(t, validateStructure(b))
}

func Test_ValidateStructure_AcceptsBodyWithMatchingUncles(t *testing.T) {
	uncle := &types.Header{Number: big.NewInt(9)}
	root := types.DeriveSha(types.Transactions(nil), nil)
	header := plainHeader(10, root)
	header.UncleHash = types.CalcUncleHash([]*types.Header{uncle})
	b := &Block{Header: header, Body: &types.Body{Uncles: []*types.Header{uncle}}}

	assert.True(t, validateStructure(b))
}

func Test_ValidateStructure_RejectsUncleHashMismatchingBody(t *testing.T) {
	root := types.DeriveSha(types.Transactions(nil), nil)
	header := plainHeader(10, root)
	header.UncleHash = common.HexToHash("0x1234")
	b := &Block{Header: header, Body: &types.Body{}}

	assert.False(t, validateStructure(b))
}

func Test_ValidateStructure_RejectsMismatchedTxRoot(t *testing.T) {
	b := &Block{Header: plainHeader(10, common.HexToHash("0xdead")), Body: &types.Body{}}

	assert.False(t, validateStructure(b))
}

func Test_ValidateLiveDifficulty_AcceptsPlausibleAndAdvancesBestSeen(t *testing.T) {
	best := &chain.BestSeen{}
	root := types.DeriveSha(types.Transactions(nil), nil)
	b := &Block{Header: plainHeader(500, root), Body: &types.Body{}}

	ok, gap := validateLiveDifficulty(b, best)
	assert.True(t, ok)
	assert.Nil(t, gap)
	assert.Equal(t, uint64(500), best.Height())
}

func Test_ValidateLiveDifficulty_RejectsBelowMinimumAtOrBehindBestSeen(t *testing.T) {
	best := &chain.BestSeen{}
	best.Update(500, nil)

	root := types.DeriveSha(types.Transactions(nil), nil)
	header := plainHeader(500, root)
	header.Difficulty = big.NewInt(0)
	b := &Block{Header: header, Body: &types.Body{}}

	ok, gap := validateLiveDifficulty(b, best)
	assert.False(t, ok)
	assert.Nil(t, gap)
}

func Test_ValidateLiveDifficulty_AheadOfBestSeenAcceptsAndReportsGap(t *testing.T) {
	best := &chain.BestSeen{}
	best.Update(500, nil)

	root := types.DeriveSha(types.Transactions(nil), nil)
	header := plainHeader(600, root)
	header.Difficulty = big.NewInt(0)
	b := &Block{Header: header, Body: &types.Body{}}

	ok, gap := validateLiveDifficulty(b, best)
	assert.True(t, ok)
	assert.Equal(t, &chain.Interval{From: 501, To: 599}, gap)
	assert.Equal(t, uint64(600), best.Height())
}

func Test_ValidateLiveDifficulty_NoGapReportedForConsecutiveHeight(t *testing.T) {
	best := &chain.BestSeen{}
	best.Update(500, nil)

	root := types.DeriveSha(types.Transactions(nil), nil)
	b := &Block{Header: plainHeader(501, root), Body: &types.Body{}}

	ok, gap := validateLiveDifficulty(b, best)
	assert.True(t, ok)
	assert.Nil(t, gap)
}

func Test_ValidateLiveDifficulty_NoGapReportedFromZeroBestSeen(t *testing.T) {
	best := &chain.BestSeen{}
	root := types.DeriveSha(types.Transactions(nil), nil)
	b := &Block{Header: plainHeader(600, root), Body: &types.Body{}}

	ok, gap := validateLiveDifficulty(b, best)
	assert.True(t, ok)
	assert.Nil(t, gap)
}

func Test_Validate_SkipsDifficultyCheckWhenNotLive(t *testing.T) {
	best := &chain.BestSeen{}
	root := types.DeriveSha(types.Transactions(nil), nil)
	header := plainHeader(10, root)
	header.Difficulty = big.NewInt(0)
	b := &Block{Header: header, Body: &types.Body{}}

	ok, gap := Validate(b, best, false)
	assert.True(t, ok)
	assert.Nil(t, gap)
}
