package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "bellwether"
	version = "v0.1.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Live market-depth and fair-price service for prediction markets.",
		Version: version,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP metrics server",
		RunE:  runServe,
	}

	healthcheckCmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe a running instance's /health endpoint",
		RunE:  runHealthcheck,
	}
	healthcheckCmd.Flags().String("addr", "http://127.0.0.1:8080", "base URL of the running instance")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthcheckCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
