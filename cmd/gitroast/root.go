package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roastlab/gitroast/internal/roast"
	"github.com/roastlab/gitroast/pkg/credstore"
)

var rootLogger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:           "gitroast",
	Short:         "Review your GitHub repo or user profile in a unique, funny, and sarcastic way",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with the given logger.
func Execute(logger zerolog.Logger) error {
	rootLogger = logger
	return rootCmd.Execute()
}

// openStore resolves the credential file in the user config directory.
func openStore() (*credstore.FileStore, error) {
	path, err := credstore.DefaultPath()
	if err != nil {
		return nil, err
	}
	return credstore.NewFileStore(path), nil
}

// newSession wires a roast session from the persisted credentials.
func newSession() (*roast.Session, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	s, err := roast.NewSession(store, rootLogger, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing session (run 'gitroast config' first): %w", err)
	}
	return s, nil
}
