package main

import (
	"os"

	"github.com/gnolang/fol/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
