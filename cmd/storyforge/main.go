// Command storyforge generates user stories and PRDs, tracks usage
// analytics, and exports stories to Notion.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/storyforge-dev/storyforge/internal/analytics"
	"github.com/storyforge-dev/storyforge/internal/llm/provider"
	"github.com/storyforge-dev/storyforge/pkg/config"
	"github.com/storyforge-dev/storyforge/pkg/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "storyforge",
	Short: "Generate user stories and PRDs with an LLM",
	Long: `storyforge turns short feature descriptions into well-formed user
stories and full PRDs, tracks generation analytics in Redis (or a local
file store), and exports finished stories to a Notion database.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")

	rootCmd.AddCommand(
		serveCmd(),
		generateCmd(),
		exportCmd(),
		statsCmd(),
		notionCmd(),
		resetCmd(),
	)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore connects to Redis when an address is configured, falling back to
// the local file store so the tool keeps working offline.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Redis.Addr != "" {
		st, err := store.NewRedisStore(store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err == nil {
			return st, nil
		}
		log.Printf("redis unavailable (%v), using file store", err)
	}
	return store.NewFileStore(cfg.DataDir)
}

func newProvider(cfg *config.Config) (provider.Provider, error) {
	return provider.New(provider.Config{
		Name:         cfg.Provider,
		AnthropicKey: cfg.AnthropicKey,
		OpenAIKey:    cfg.OpenAIKey,
		Model:        cfg.Model,
	})
}

func sessionID(cfg *config.Config) (string, error) {
	return analytics.LoadOrCreateSessionID(cfg.DataDir)
}
