package ethrover

import (
	"math/big"

	"github.com/chainrover/rover/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Block wraps a go-ethereum header+body pair and satisfies
// chain.ForeignBlock and unified.EthereumBlock.
type Block struct {
	Header *types.Header
	Body   *types.Body
}

func (b *Block) Height() uint64               { return b.Header.Number.Uint64() }
func (b *Block) Hash() common.Hash            { return b.Header.Hash() }
func (b *Block) ParentHash() common.Hash      { return b.Header.ParentHash }
func (b *Block) Timestamp() uint64            { return b.Header.Time }
func (b *Block) TransactionsRoot() common.Hash { return b.Header.TxHash }

func (b *Block) Transactions() []chain.ForeignTransaction {
	txs := make([]chain.ForeignTransaction, 0, len(b.Body.Transactions))
	for _, tx := range b.Body.Transactions {
		txs = append(txs, &Transaction{tx})
	}
	return txs
}

// Transaction wraps a go-ethereum transaction and satisfies chain.ForeignTransaction.
type Transaction struct {
	Tx *types.Transaction
}

func (t *Transaction) Hash() common.Hash    { return t.Tx.Hash() }
func (t *Transaction) Value() *big.Int      { return t.Tx.Value() }
func (t *Transaction) TypeTag() string      { return "transfer" }

func (t *Transaction) From() common.Address {
	signer := types.HomesteadSigner{}
	addr, err := types.Sender(signer, t.Tx)
	if err != nil {
		return common.Address{}
	}
	return addr
}

func (t *Transaction) To() common.Address {
	if to := t.Tx.To(); to != nil {
		return *to
	}
	return common.Address{}
}

// IsValueTransfer implements the Ethereum side of unified.Marker's
// IsValueTransfer hook: true for plain transfers (no call data, not a
// contract creation), the Ethereum equivalent of Lisk's type-0 transaction.
func IsValueTransfer(t chain.ForeignTransaction) bool {
	et, ok := t.(*Transaction)
	return ok && et.Tx.To() != nil && len(et.Tx.Data()) == 0
}
