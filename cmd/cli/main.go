package main

import (
	"fmt"
	"os"

	"github.com/glitchgg/glitch/cmd/cli/root"
)

func main() {
	// Execute the root Cobra command
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
