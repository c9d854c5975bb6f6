// Package main provides the entry point for the scrybe CLI.
package main

import (
	"os"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/siad007/Scrybe/internal/cli"
	"github.com/siad007/Scrybe/internal/factory"
)

func main() {
	log := logger.NewConsoleLogger(os.Stderr)

	app := cli.New(log, factory.New())
	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
