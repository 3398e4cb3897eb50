package main

import "github.com/chainrover/rover/cmd/rover/cmd"

func main() {
	cmd.Execute()
}
