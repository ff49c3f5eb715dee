// Package main is the entry point for the typethrough daemon and client.
package main

import (
	"fmt"
	"os"

	"typethrough/cmd"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersion(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "typethrough:", err)
		os.Exit(1)
	}
}
