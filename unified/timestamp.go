package unified

import "time"

// lskGenesis is the fixed UTC instant Lisk block timestamps are offset from.
var lskGenesis = time.Date(2016, time.May, 24, 17, 0, 0, 0, time.UTC)

// lskGenesisUnixSeconds is floor(lskGenesis-as-milliseconds / 1000).
var lskGenesisUnixSeconds = lskGenesis.Unix()

// NormalizeEthereumTimestamp converts an Ethereum block timestamp (seconds
// since Unix epoch) to milliseconds.
func NormalizeEthereumTimestamp(seconds uint64) uint64 {
	return seconds * 1000
}

// NormalizeLiskTimestamp converts a Lisk block timestamp (seconds since the
// Lisk genesis instant) to milliseconds since Unix epoch.
func NormalizeLiskTimestamp(secondsSinceGenesis uint64) uint64 {
	return (uint64(lskGenesisUnixSeconds) + secondsSinceGenesis) * 1000
}
