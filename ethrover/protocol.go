package ethrover

import (
	"github.com/ethereum/go-ethereum/common"
)

// Message codes for the ETH wire subprotocol, versions 62/63. Only the
// codes this rover acts on are enumerated; anything else arriving on the
// wire is logged and dropped by Session.handleMsg.
const (
	StatusMsg          = 0x00
	NewBlockHashesMsg  = 0x01
	TxMsg              = 0x02
	GetBlockHeadersMsg = 0x03
	BlockHeadersMsg    = 0x04
	GetBlockBodiesMsg  = 0x05
	BlockBodiesMsg     = 0x06
	NewBlockMsg        = 0x07
	GetNodeDataMsg     = 0x0d
	NodeDataMsg        = 0x0e
	GetReceiptsMsg     = 0x0f
	ReceiptsMsg        = 0x10
)

const (
	protocolName    = "eth"
	protocolVersion = 63
	protocolLength  = 17
)

// DAOForkBlock is the height of the DAO-fork block used as the fork probe.
const DAOForkBlock = 1920000

// DAOForkBlockHash is the well-known mainnet header hash at DAOForkBlock,
// used to distinguish ETH peers from ETC peers.
var DAOForkBlockHash = common.HexToHash("0x4985f5ca3d2afbec36529aa96f74de3cc10a2a4a6c44f2157a57d2c6059a11bb")

// statusData is the payload of the STATUS message.
type statusData struct {
	ProtocolVersion uint32
	NetworkID       uint64
	TD              []byte
	CurrentBlock    common.Hash
	GenesisBlock    common.Hash
}

// getBlockHeadersData is the payload of GET_BLOCK_HEADERS.
type getBlockHeadersData struct {
	Origin  common.Hash
	Number  uint64
	Amount  uint64
	Skip    uint64
	Reverse bool
}

// getBlockBodiesData is the payload of GET_BLOCK_BODIES: a list of hashes.
type getBlockBodiesData []common.Hash
