package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyforge-dev/storyforge/internal/analytics"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all recorded analytics data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Print("Delete ALL session and generation records? [y/N] ")
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if strings.ToLower(strings.TrimSpace(answer)) != "y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			deleted, err := analytics.Reset(cmd.Context(), st)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d records\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}
