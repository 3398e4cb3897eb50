package unified

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/blake2b"
)

func Test_LiskMerkleRoot_EmptyTransactions(t *testing.T) {
	sig := []byte("block-signature")
	want := blake2b.Sum256(sig)

	got := LiskMerkleRoot(sig, nil)

	assert.Equal(t, want[:], got)
}

func Test_LiskMerkleRoot_FoldsInOrder(t *testing.T) {
	t1, t2, t3 := []byte("t1"), []byte("t2"), []byte("t3")

	acc := blake2b.Sum256(append([]byte{}, t1...))
	acc2 := blake2b.Sum256(append(acc[:], t2...))
	acc3 := blake2b.Sum256(append(acc2[:], t3...))

	got := LiskMerkleRoot(nil, [][]byte{t1, t2, t3})

	assert.Equal(t, acc3[:], got)
}
