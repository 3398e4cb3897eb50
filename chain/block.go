package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ForeignTransaction is a chain-native transaction observed by a rover.
// A rover never executes a transaction; it only ever reads these fields
// off the wire to decide whether the transaction should be marked.
type ForeignTransaction interface {
	Hash() common.Hash
	From() common.Address
	To() common.Address
	Value() *big.Int
	TypeTag() string
}

// ForeignBlock is a chain-native block observed by a rover. Chain-specific
// header fields used only for validation (difficulty, uncles hash, Lisk's
// payload hash/length/generator key/block signature) live on the concrete
// Ethereum/Lisk block types, not here - this interface carries only what
// every rover needs to plan, track and translate a block.
type ForeignBlock interface {
	Height() uint64
	Hash() common.Hash
	ParentHash() common.Hash
	Timestamp() uint64
	Transactions() []ForeignTransaction
}

// ChainTag identifies which foreign chain a value came from.
type ChainTag string

const (
	TagEthereum ChainTag = "eth"
	TagLisk     ChainTag = "lsk"
)

// MarkedTransaction is a transaction selected for cross-chain relevance,
// ready to be emitted upstream as part of a unified block.
type MarkedTransaction struct {
	Chain       ChainTag
	TokenTag    string
	From        common.Address
	To          common.Address
	ValueBytes  []byte
	BlockHeight uint64
	Index       int
	TxHash      common.Hash
}

// UnifiedBlock is the canonical cross-chain block representation emitted upstream.
type UnifiedBlock struct {
	Chain      ChainTag
	Hash       common.Hash
	ParentHash common.Hash
	Timestamp  uint64 // milliseconds since Unix epoch
	Height     uint64
	MerkleRoot common.Hash
	MarkedTxs  []MarkedTransaction
}
