// Command born-ext runs and inspects native user-defined operators.
package main

import (
	"os"

	"github.com/born-ml/born-ext/cmd/born-ext/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
