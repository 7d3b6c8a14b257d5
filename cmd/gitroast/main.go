package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level, err := zerolog.ParseLevel(lvl)
		if err == nil {
			zerolog.SetGlobalLevel(level)
		}
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if err := Execute(logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
