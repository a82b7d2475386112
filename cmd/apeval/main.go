package main

import (
	"os"

	"github.com/lilggamegenuis/apeval/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
