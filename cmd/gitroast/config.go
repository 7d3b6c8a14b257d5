package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roastlab/gitroast/internal/config"
	"github.com/roastlab/gitroast/internal/errors"
	"github.com/roastlab/gitroast/pkg/credstore"
)

var (
	cfgGitHubToken string
	cfgProvider    string
	cfgAPIKey      string
	cfgModelID     string
	cfgBaseURL     string
)

func init() {
	configCmd.Flags().StringVar(&cfgGitHubToken, "set-github-token", "", "set the GitHub token")
	configCmd.Flags().StringVar(&cfgProvider, "set-llm-provider", "", "set the LLM provider (OPENAI or GROQ)")
	configCmd.Flags().StringVar(&cfgAPIKey, "set-api-key", "", "set the API key for the current LLM provider")
	configCmd.Flags().StringVar(&cfgModelID, "set-model-id", "", "set the LLM model ID")
	configCmd.Flags().StringVar(&cfgBaseURL, "set-base-url", "", "set the base URL (OpenAI provider only)")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure credentials and provider settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		rec, err := store.Load()
		if err != nil && err != credstore.ErrNoRecord {
			return err
		}
		if rec == nil {
			rec = credstore.Record{}
		}

		changed := false
		if cfgGitHubToken != "" {
			rec[credstore.KeyGitHubToken] = cfgGitHubToken
			changed = true
		}
		if cfgProvider != "" {
			if err := applyProvider(rec, cfgProvider); err != nil {
				return err
			}
			changed = true
		}
		if cfgAPIKey != "" {
			applyAPIKey(rec, cfgAPIKey)
			changed = true
		}
		if cfgModelID != "" {
			rec[credstore.KeyModelID] = cfgModelID
			changed = true
		}
		if cfgBaseURL != "" {
			if err := applyBaseURL(rec, cfgBaseURL); err != nil {
				return err
			}
			changed = true
		}

		if !changed {
			printRecord(rec, store.Path())
			return nil
		}
		if err := store.Save(rec); err != nil {
			return err
		}
		fmt.Println("Configuration saved to", store.Path())
		return nil
	},
}

// applyProvider switches providers and carries that provider's saved
// key into the default slot, matching the roaster's key resolution.
func applyProvider(rec credstore.Record, provider string) error {
	provider = strings.ToUpper(provider)
	switch provider {
	case config.ProviderOpenAI:
		rec[credstore.KeyDefaultAPIKey] = rec[credstore.KeyOpenAIAPIKey]
	case config.ProviderGroq:
		rec[credstore.KeyDefaultAPIKey] = rec[credstore.KeyGroqAPIKey]
	default:
		return errors.NewConfigError("llm-provider", fmt.Sprintf("unknown provider %q, expected OPENAI or GROQ", provider))
	}
	rec[credstore.KeyProvider] = provider
	return nil
}

func applyAPIKey(rec credstore.Record, key string) {
	switch rec[credstore.KeyProvider] {
	case config.ProviderOpenAI:
		rec[credstore.KeyOpenAIAPIKey] = key
	case config.ProviderGroq:
		rec[credstore.KeyGroqAPIKey] = key
	}
	rec[credstore.KeyDefaultAPIKey] = key
}

// applyBaseURL normalizes a base URL to a chat completions endpoint.
// Only OpenAI-compatible deployments accept an override.
func applyBaseURL(rec credstore.Record, baseURL string) error {
	if rec[credstore.KeyProvider] != config.ProviderOpenAI {
		return errors.NewConfigError("base-url", "base URL overrides apply to the OPENAI provider only")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/chat/completions") {
		baseURL += "/chat/completions"
	}
	rec[credstore.KeyOpenAIBaseURL] = baseURL
	return nil
}

func printRecord(rec credstore.Record, path string) {
	fmt.Println("Configuration file:", path)
	fmt.Println("  github token: ", mask(rec[credstore.KeyGitHubToken]))
	fmt.Println("  llm provider: ", orUnset(rec[credstore.KeyProvider]))
	fmt.Println("  model id:     ", orUnset(rec[credstore.KeyModelID]))
	fmt.Println("  api key:      ", mask(rec[credstore.KeyDefaultAPIKey]))
	fmt.Println("  base url:     ", orUnset(rec[credstore.KeyOpenAIBaseURL]))
}

func mask(v string) string {
	if v == "" {
		return "(not set)"
	}
	return strings.Repeat("*", len(v))
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
