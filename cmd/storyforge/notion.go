package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storyforge-dev/storyforge/pkg/config"
	"github.com/storyforge-dev/storyforge/pkg/notion"
)

func notionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notion",
		Short: "Manage the Notion integration",
	}
	cmd.AddCommand(notionSetCmd(), notionTestCmd())
	return cmd
}

func notionSetCmd() *cobra.Command {
	var token, databaseID string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save Notion credentials to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if token != "" {
				cfg.Notion.Token = token
			}
			if databaseID != "" {
				cfg.Notion.DatabaseID = databaseID
			}
			if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
				return fmt.Errorf("both --token and --database are required")
			}

			// Verify before persisting.
			client, err := notion.NewClient(notion.Config{
				Token:      cfg.Notion.Token,
				DatabaseID: cfg.Notion.DatabaseID,
			})
			if err != nil {
				return err
			}
			info, err := client.TestConnection(cmd.Context())
			if err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}

			if err := config.SaveConfig(cfg, configPath); err != nil {
				return err
			}
			fmt.Printf("Connected to %q, credentials saved to %s\n", info.DatabaseTitle, configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Notion integration token")
	cmd.Flags().StringVar(&databaseID, "database", "", "Target database ID")
	return cmd
}

func notionTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the Notion connection and show the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
				return fmt.Errorf("notion is not configured, run: storyforge notion set")
			}

			client, err := notion.NewClient(notion.Config{
				Token:      cfg.Notion.Token,
				DatabaseID: cfg.Notion.DatabaseID,
			})
			if err != nil {
				return err
			}

			info, err := client.TestConnection(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Database: %s\n", info.DatabaseTitle)

			schema, err := client.DatabaseSchema(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println("Properties:")
			for name, typ := range schema.Properties {
				fmt.Printf("  %-20s %s\n", name, typ)
			}
			return nil
		},
	}
}
