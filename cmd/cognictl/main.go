// Command cognictl scores intake files, ranks treatments and manages the
// database schema and the local memory vault.
package main

import (
	"fmt"
	"os"

	"github.com/cognisphere-server/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
