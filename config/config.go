package config

import (
	"crypto/ecdsa"

	"github.com/chainrover/rover/chain"
	"github.com/chainrover/rover/common/hexutil"
	"github.com/chainrover/rover/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Network selects which foreign network a rover instance talks to.
type Network string

const (
	NetworkMain Network = "main"
	NetworkTest Network = "test"
)

// EthereumConfig holds the devp2p-specific settings (C2).
type EthereumConfig struct {
	ECDSAKey       string   `toml:"ECDSAKey"`
	MaximumPeers   int      `toml:"maximumPeers"`
	AltBootNodes   []string `toml:"altBootNodes"`

	privateKey *ecdsa.PrivateKey
}

// PrivateKey lazily parses ECDSAKey, matching the teacher's own
// load-key-from-config-string convention.
func (c *EthereumConfig) PrivateKey() (*ecdsa.PrivateKey, error) {
	if c.privateKey != nil {
		return c.privateKey, nil
	}

	raw := c.ECDSAKey
	if hexutil.Has0xPrefix(raw) {
		raw = raw[2:]
	}

	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, err
	}

	c.privateKey = key
	return key, nil
}

// LiskConfig holds the HTTP-polling-specific settings (C1/C2 replacement).
type LiskConfig struct {
	Nodes          []string `toml:"nodes"`
	RandomizeNodes bool     `toml:"randomizeNodes"`
	BannedPeers    []string `toml:"bannedPeers"`
}

// Config is the top-level rover configuration file, decoded with
// github.com/BurntSushi/toml as the teacher's own node config is.
type Config struct {
	Chain        chain.ChainTag `toml:"chain"`
	Network      Network        `toml:"network"`
	IsStandalone bool           `toml:"isStandalone"`
	ParentRPCAddr string        `toml:"parentRpcAddr"`

	// DesignatedWalletKey is a hex-encoded common.Address, compared against
	// every transaction's recovered sender. For Ethereum this is the
	// wallet's address directly; for Lisk it is
	// liskrover.AddressFromAccountID(accountID).Hex(), since Lisk
	// transactions carry a decimal account id rather than a 20-byte
	// address. Empty disables "emb" marking for this chain.
	DesignatedWalletKey string `toml:"designatedWalletKey"`

	ResyncPeriodSecs uint64 `toml:"resyncPeriodSecs"`

	Log      log.Config     `toml:"log"`
	Ethereum EthereumConfig `toml:"ethereum"`
	Lisk     LiskConfig     `toml:"lisk"`
}

// DesignatedAddress parses DesignatedWalletKey into a common.Address, or
// returns nil if marking is disabled for this chain.
func (c *Config) DesignatedAddress() *common.Address {
	if c.DesignatedWalletKey == "" {
		return nil
	}
	addr := common.HexToAddress(c.DesignatedWalletKey)
	return &addr
}

// SecondsPerBlock returns the nominal block interval for this rover's chain.
func (c *Config) SecondsPerBlock() uint64 {
	if c.Chain == chain.TagLisk {
		return 10
	}
	return 15
}

// MaxBatch returns the resync batch ceiling for this rover's chain.
func (c *Config) MaxBatch() uint64 {
	if c.Chain == chain.TagLisk {
		return chain.MaxBatchLisk
	}
	return chain.MaxBatchEthereum
}
