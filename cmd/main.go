package main

import (
	"os"

	"github.com/MimeLyc/srtrans/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
