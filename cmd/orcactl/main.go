package main

import (
	"fmt"
	"os"

	"github.com/samvad-hq/orca-public-api/internal/config"
	"github.com/samvad-hq/orca-public-api/internal/logger"
)

// Version information set during build
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orcactl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defer logger.Close()
	return newRootCmd(config.Load).Execute()
}
