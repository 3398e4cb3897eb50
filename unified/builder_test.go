package unified

import (
	"math/big"
	"testing"

	"github.com/chainrover/rover/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

type fakeEthBlock struct {
	height uint64
	hash   common.Hash
	parent common.Hash
	ts     uint64
	root   common.Hash
	txs    []chain.ForeignTransaction
}

func (b fakeEthBlock) Height() uint64                        { return b.height }
func (b fakeEthBlock) Hash() common.Hash                     { return b.hash }
func (b fakeEthBlock) ParentHash() common.Hash                { return b.parent }
func (b fakeEthBlock) Timestamp() uint64                      { return b.ts }
func (b fakeEthBlock) Transactions() []chain.ForeignTransaction { return b.txs }
func (b fakeEthBlock) TransactionsRoot() common.Hash           { return b.root }

func Test_BuildEthereum_TimestampAndMerkleRootPassthrough(t *testing.T) {
	root := common.HexToHash("0xabc")
	b := fakeEthBlock{height: 42, ts: 1000, root: root}

	u := BuildEthereum(b, &Marker{Chain: chain.TagEthereum})

	assert.Equal(t, uint64(42), u.Height)
	assert.Equal(t, uint64(1000000), u.Timestamp)
	assert.Equal(t, root, u.MerkleRoot)
	assert.Empty(t, u.MarkedTxs)
}

func Test_BuildEthereum_Deterministic(t *testing.T) {
	tx := fakeTx{from: common.HexToAddress("0x01"), to: common.HexToAddress("0x02"), val: big.NewInt(7)}
	b := fakeEthBlock{height: 1, txs: []chain.ForeignTransaction{tx}}

	m := &Marker{Chain: chain.TagEthereum, Settlement: fakeSettlement{result: true}}

	u1 := BuildEthereum(b, m)
	u2 := BuildEthereum(b, m)

	assert.Equal(t, u1, u2)
	assert.Equal(t, 0, u1.MarkedTxs[0].Index)
}
