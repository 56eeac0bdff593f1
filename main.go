package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tutusiji/lantu-next/cli"
	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/logging"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg := config.New()
	logging.Init(cfg)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("no .env file loaded, using process environment")
	}

	if err := cli.Execute(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
