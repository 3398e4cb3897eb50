package unified

import (
	"github.com/chainrover/rover/chain"
	"github.com/ethereum/go-ethereum/common"
)

// EthereumBlock is the subset of an Ethereum block the builder needs, on
// top of chain.ForeignBlock: the header's own transactions-root, since
// Ethereum's merkle root is a passthrough rather than a derived value.
type EthereumBlock interface {
	chain.ForeignBlock
	TransactionsRoot() common.Hash
}

// LiskBlock is the subset of a Lisk block the builder needs: the raw
// block signature and transaction ids used by the blake2b fold.
type LiskBlock interface {
	chain.ForeignBlock
	BlockSignature() []byte
	TransactionIDs() [][]byte
}

// BuildEthereum translates a validated Ethereum block into a unified block.
func BuildEthereum(b EthereumBlock, marker *Marker) chain.UnifiedBlock {
	return chain.UnifiedBlock{
		Chain:      chain.TagEthereum,
		Hash:       b.Hash(),
		ParentHash: b.ParentHash(),
		Height:     b.Height(),
		Timestamp:  NormalizeEthereumTimestamp(b.Timestamp()),
		MerkleRoot: b.TransactionsRoot(),
		MarkedTxs:  markAll(b, marker),
	}
}

// BuildLisk translates a validated Lisk block into a unified block.
func BuildLisk(b LiskBlock, marker *Marker) chain.UnifiedBlock {
	return chain.UnifiedBlock{
		Chain:      chain.TagLisk,
		Hash:       b.Hash(),
		ParentHash: b.ParentHash(),
		Height:     b.Height(),
		Timestamp:  NormalizeLiskTimestamp(b.Timestamp()),
		MerkleRoot: common.BytesToHash(LiskMerkleRoot(b.BlockSignature(), b.TransactionIDs())),
		MarkedTxs:  markAll(b, marker),
	}
}

func markAll(b chain.ForeignBlock, marker *Marker) []chain.MarkedTransaction {
	var marked []chain.MarkedTransaction

	for _, t := range b.Transactions() {
		if mt, ok := marker.Mark(t, b.Height(), len(marked)); ok {
			marked = append(marked, mt)
		}
	}

	return marked
}
