package unified

import (
	"golang.org/x/crypto/blake2b"
)

// LiskMerkleRoot computes the Lisk contract's merkle root: if ids is empty,
// blake2b(blockSignature); otherwise a left fold, acc := blake2b(acc||id),
// starting from the empty string. This is not a canonical merkle tree - it
// is the wire contract produced by the Lisk node and must be reproduced
// exactly, fold order included.
func LiskMerkleRoot(blockSignature []byte, txIDs [][]byte) []byte {
	if len(txIDs) == 0 {
		sum := blake2b.Sum256(blockSignature)
		return sum[:]
	}

	acc := []byte{}
	for _, id := range txIDs {
		sum := blake2b.Sum256(append(acc, id...))
		acc = sum[:]
	}

	return acc
}
