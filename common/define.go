package common

const (
	// ChainEthereum identifies the Ethereum foreign chain.
	ChainEthereum = "ethereum"

	// ChainLisk identifies the Lisk foreign chain.
	ChainLisk = "lisk"

	// DesignatedAssetTag marks a transaction carrying the designated "emb" asset.
	DesignatedAssetTag = "emb"
)
