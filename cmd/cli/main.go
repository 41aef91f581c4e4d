// Package main is the entry point for the meetctl admin binary.
package main

import (
	"os"

	cli "meetreg/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
