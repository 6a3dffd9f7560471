// Command spinne statically analyzes React/TypeScript workspaces and emits
// per-project component graphs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Fatal errors surface as a single line on stderr; everything
		// recoverable was already logged by the pipeline.
		fmt.Fprintf(os.Stderr, "spinne: %v\n", err)
		os.Exit(1)
	}
}
