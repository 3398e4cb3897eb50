package liskrover

// Validate runs the Lisk structural checks equivalent to C3: the block's
// declared transaction count must match what was actually fetched, and
// every transaction must carry a resolvable sender. Lisk has no uncles
// hash or transactions-root to check, and no local difficulty rule - the
// API itself is the trust boundary, so validation here is shallow by
// design, matching the contract's "stateless checks on headers, bodies,
// tx signatures" scaled to what Lisk actually exposes.
func Validate(b *Block) bool {
	if uint64(len(b.txs)) != b.wire.NumberOfTxs {
		return false
	}

	for _, t := range b.txs {
		if t.wire.SenderID == "" && t.wire.SenderPublicKey == "" {
			return false
		}
	}

	return true
}
