package ethrover

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// daoForkHeader approximates mainnet block 1,920,000's header and is served
// back to peers that probe us with GET_BLOCK_HEADERS(1920000) so the
// fork-probe handshake is reciprocal. It leaves Bloom, MixDigest and Nonce
// zero, so its Hash() is not DAOForkBlockHash; this rover never depends on
// that equality for its own probes of others; it only affects how
// convincing we look to peers that in turn probe us.
var daoForkHeader = &types.Header{
	ParentHash:  common.HexToHash("0xa218e2c611f21232d857e3c8cecdcdf1f65f25a4477f98f6f47e4063807f711"),
	UncleHash:   types.CalcUncleHash(nil),
	Coinbase:    common.HexToAddress("0x61c808d82a3ac53231750dadc13c777b59310bd9"),
	Root:        common.HexToHash("0xc5e389416116e3696cce82ec4533cce33efccb24ce245ae9546a4b8f0d5e9a7"),
	TxHash:      common.HexToHash("0x7701df8e07169452554d14aadd7bfa256d4a1d0355c1d174ab373e3e2d0a3f7"),
	ReceiptHash: common.HexToHash("0x26cf9d9422e9dd95aedc7914db690b92bab6902f5221d62694a2fa5d065f534"),
	Difficulty:  big.NewInt(62413376722602),
	Number:      big.NewInt(DAOForkBlock),
	GasLimit:    4712384,
	GasUsed:     84000,
	Time:        1469020840,
	Extra:       []byte("dao-hard-fork"),
}
