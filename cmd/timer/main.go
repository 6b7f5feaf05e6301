package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/stigoleg/timer/internal/cli"
	"github.com/stigoleg/timer/internal/config"
)

const appVersion = "1.0.0"

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)
	defer signal.Stop(sigChan)

	app := &cli.App{
		Version: appVersion,
		Signals: sigChan,
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		os.Exit(1)
	}
}
