package main

import (
	"os"

	"github.com/user/cinehub/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
