// Command bfc is the compiler's CLI: compile one or more components,
// watch a directory and recompile on change, or bootstrap conformance
// fixtures. Flags and config file are layered via cobra/viper, matching
// the shape the pack's CLI-oriented repos use.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/barefootjs/bfc/cmd/bfc/internal/app"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfc: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := app.NewRootCommand(logger.Sugar()).Execute(); err != nil {
		os.Exit(1)
	}
}
