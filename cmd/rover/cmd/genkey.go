package cmd

import (
	"fmt"

	"github.com/chainrover/rover/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

// genKeyCmd generates a fresh devp2p node key for ethereum.ecdsaKey, printed
// the way a rover operator pastes it into the config file.
var genKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "generate an ECDSA key pair for a rover's devp2p identity",
	Long:  "generate a key pair and print them as hex values\nFor example:\nrover key",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			fmt.Println(err)
			return
		}

		publicKey := crypto.PubkeyToAddress(privateKey.PublicKey)

		fmt.Printf("public key:  %s\n", publicKey.Hex())
		fmt.Printf("private key: %s\n", hexutil.BytesToHex(crypto.FromECDSA(privateKey)))
	},
}

func init() {
	rootCmd.AddCommand(genKeyCmd)
}
