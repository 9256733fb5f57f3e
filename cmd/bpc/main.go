// Command bpc is BP's compiler CLI: it reads a source file and writes the
// Wasm module it compiles to, or reports the first diagnostic (§7).
package main

import (
	"os"

	"github.com/bpc-lang/bpc/cmd/bpc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
