package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const roverVersion = "0.1.0"

var version bool

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rover",
	Short: "rover command for starting a chain rover",
	Long:  `use "rover help [<command>]" for detailed usage`,
	Run: func(cmd *cobra.Command, args []string) {
		if version {
			fmt.Println(roverVersion)
		} else {
			cmd.Help()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&version, "version", "v", false, "print version")
}
