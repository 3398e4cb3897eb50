package liskrover

import (
	"encoding/hex"
	"math/big"

	"github.com/chainrover/rover/chain"
	"github.com/ethereum/go-ethereum/common"
)

// ValueTransferType is Lisk's transaction type code for a plain balance
// transfer, the only type eligible for designated-asset marking.
const ValueTransferType = 0

// wireBlock is the shape of a block as returned by GET /blocks.
type wireBlock struct {
	ID              string       `json:"id"`
	Height          uint64       `json:"height"`
	PreviousBlockID string       `json:"previousBlock"`
	Timestamp       uint64       `json:"timestamp"`
	GeneratorKey    string       `json:"generatorPublicKey"`
	BlockSignature  string       `json:"blockSignature"`
	PayloadHash     string       `json:"payloadHash"`
	PayloadLength   uint64       `json:"payloadLength"`
	NumberOfTxs     uint64       `json:"numberOfTransactions"`
	Transactions    []wireTxData `json:"transactions,omitempty"`
}

// wireTxData is the shape of a transaction as returned by GET /transactions.
type wireTxData struct {
	ID              string `json:"id"`
	Type            int    `json:"type"`
	SenderID        string `json:"senderId"`
	SenderPublicKey string `json:"senderPublicKey"`
	RecipientID     string `json:"recipientId"`
	Amount          string `json:"amount"`
}

// Block wraps one polled Lisk block and its associated transactions, and
// satisfies chain.ForeignBlock and unified.LiskBlock.
type Block struct {
	wire wireBlock
	txs  []*Transaction
}

func (b *Block) Height() uint64          { return b.wire.Height }
func (b *Block) Timestamp() uint64       { return b.wire.Timestamp }
func (b *Block) Hash() common.Hash       { return idToHash(b.wire.ID) }
func (b *Block) ParentHash() common.Hash { return idToHash(b.wire.PreviousBlockID) }

func (b *Block) Transactions() []chain.ForeignTransaction {
	txs := make([]chain.ForeignTransaction, 0, len(b.txs))
	for _, t := range b.txs {
		txs = append(txs, t)
	}
	return txs
}

// BlockSignature returns the raw block-signature bytes used in the
// merkle-root fold when the block carries no transactions.
func (b *Block) BlockSignature() []byte {
	return decodeHexLenient(b.wire.BlockSignature)
}

// TransactionIDs returns the decimal transaction-id strings, in block
// order, encoded as bytes for the merkle-root fold.
func (b *Block) TransactionIDs() [][]byte {
	ids := make([][]byte, 0, len(b.txs))
	for _, t := range b.txs {
		ids = append(ids, []byte(t.wire.ID))
	}
	return ids
}

// GeneratorPublicKey and PayloadHash expose chain-specific header fields;
// neither the Lisk validator nor the generic builder pipeline reads them.
func (b *Block) GeneratorPublicKey() []byte { return decodeHexLenient(b.wire.GeneratorKey) }
func (b *Block) PayloadHash() []byte        { return decodeHexLenient(b.wire.PayloadHash) }
func (b *Block) PayloadLength() uint64      { return b.wire.PayloadLength }
func (b *Block) DeclaredTxCount() uint64    { return b.wire.NumberOfTxs }

// Transaction wraps one polled Lisk transaction and satisfies chain.ForeignTransaction.
type Transaction struct {
	wire wireTxData
}

func (t *Transaction) Hash() common.Hash    { return idToHash(t.wire.ID) }
func (t *Transaction) From() common.Address { return idToAddress(t.wire.SenderID) }
func (t *Transaction) To() common.Address   { return idToAddress(t.wire.RecipientID) }
func (t *Transaction) TypeTag() string      { return "lisk" }

func (t *Transaction) Value() *big.Int {
	v, ok := new(big.Int).SetString(t.wire.Amount, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

func (t *Transaction) isValueTransfer() bool { return t.wire.Type == ValueTransferType }

// IsValueTransfer implements the Lisk side of the unified.Marker's
// IsValueTransfer hook: true for Lisk's type-0 (plain balance transfer)
// transactions, the only type eligible for "emb" designated-asset marking.
func IsValueTransfer(t chain.ForeignTransaction) bool {
	lt, ok := t.(*Transaction)
	return ok && lt.isValueTransfer()
}

// idToHash and idToAddress fold Lisk's decimal-string identifiers into
// fixed-width values so the unified pipeline can treat every chain's
// identifiers uniformly; Lisk ids have no native 32-byte encoding.
func idToHash(id string) common.Hash {
	return common.BytesToHash([]byte(id))
}

func idToAddress(id string) common.Address {
	return AddressFromAccountID(id)
}

// AddressFromAccountID folds a Lisk decimal account id into the same
// common.Address representation Transaction.From/To use, so a designated
// wallet id from config can be compared against it. A rover operator sets
// config.Config.DesignatedWalletKey to AddressFromAccountID(accountID).Hex().
func AddressFromAccountID(id string) common.Address {
	return common.BytesToAddress([]byte(id))
}

// decodeHexLenient decodes a bare (no 0x prefix) hex string as returned
// by the Lisk API, returning nil on malformed input rather than erroring
// or panicking.
func decodeHexLenient(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
