package main

import (
	"os"

	"github.com/joho/godotenv"

	"inceptiv/crenewsworker/cmd"
	"inceptiv/crenewsworker/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	if err := cmd.Execute(); err != nil {
		logger.Default.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
