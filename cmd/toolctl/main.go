package main

import (
	"os"

	"github.com/JonMunkholm/aitools/internal/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(1)
	}
}
