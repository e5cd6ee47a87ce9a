package main

import (
	"fmt"
	"os"

	"checkin-manager/internal/adapter/primary/cli"
	"checkin-manager/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logging.Sync()
		os.Exit(1)
	}
}
