package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyforge-dev/storyforge/pkg/notion"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file> [file...]",
		Short: "Export stories to Notion",
		Long: `Export one or more story files to the configured Notion database.
Each file becomes one page; files containing multiple stories separated by
a line of three dashes are split first. Pages are created one at a time,
paced to stay inside Notion's rate limit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
				return fmt.Errorf("notion is not configured, run: storyforge notion set")
			}

			var stories []string
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				for _, chunk := range strings.Split(string(data), "\n---\n") {
					if s := strings.TrimSpace(chunk); s != "" {
						stories = append(stories, s)
					}
				}
			}
			if len(stories) == 0 {
				return fmt.Errorf("nothing to export")
			}

			client, err := notion.NewClient(notion.Config{
				Token:      cfg.Notion.Token,
				DatabaseID: cfg.Notion.DatabaseID,
			})
			if err != nil {
				return err
			}

			exporter := notion.NewExporter(client)
			result, err := exporter.ExportAll(cmd.Context(), stories, func(p notion.Progress) {
				if p.Error != "" {
					fmt.Fprintf(os.Stderr, "[%d/%d] failed: %s\n", p.Current, p.Total, p.Error)
				} else {
					fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", p.Current, p.Total, p.LatestTitle)
				}
			})
			if err != nil {
				return err
			}

			fmt.Printf("Exported %d of %d stories", result.Success, result.Total)
			if result.Failed > 0 {
				fmt.Printf(" (%d failed)", result.Failed)
			}
			fmt.Println()
			return nil
		},
	}
	return cmd
}
