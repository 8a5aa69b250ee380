package main

import (
	"github.com/hyperbrowserai/hyperagent-go/cmd"
)

// main is the entry point for the HyperAgent CLI.
func main() {
	cmd.Execute()
}
