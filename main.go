// Package main is the entry point for the alertwire command.
package main

import (
	"os"

	"alertwire/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
