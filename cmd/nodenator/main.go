// Command nodenator compiles guarded message graphs, routes messages
// through them and synthesizes dispatch code.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fridex/nodenator/internal/cli"
)

func main() {
	// A missing .env is fine; settings then come from the environment.
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
