// Command skillscope explores job postings by skill, state and work type.
package main

import (
	"os"

	"github.com/spektr-org/skillscope/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
