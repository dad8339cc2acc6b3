// recipesync keeps a local recipe cache in sync with a remote source.
//
// Usage:
//
//	recipesync [--verbose] [--ephemeral] [--config-dir DIR] <command>
package main

import (
	"os"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	// cobra has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
