package main

import (
	"os"

	"github.com/jpalmeida/narro/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
