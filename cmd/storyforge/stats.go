package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storyforge-dev/storyforge/internal/analytics"
)

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := analytics.NewAggregator(st).ComputeReport(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Printf("Sessions:        %d\n", report.TotalSessions)
			fmt.Printf("Generations:     %d (%d stories, %d PRDs)\n",
				report.TotalGenerations, report.UserStories, report.PRDs)
			fmt.Printf("Today / 7 days:  %d / %d\n", report.TodayGenerations, report.ThisWeekGenerations)
			fmt.Printf("Avg per session: %s\n", report.AvgPerSession)
			fmt.Printf("Total cost:      $%.2f (projected monthly $%.2f)\n",
				report.Cost.TotalCost, report.Cost.ProjectedMonthlyCost)

			if len(report.TopReferrers) > 0 {
				fmt.Println("\nTop referrers:")
				for _, r := range report.TopReferrers {
					fmt.Printf("  %-30s %d\n", r.Name, r.Count)
				}
			}
			if len(report.TopGoals) > 0 {
				fmt.Println("\nTop goals:")
				for _, g := range report.TopGoals {
					fmt.Printf("  %-30s %d\n", g.Name, g.Count)
				}
			}
			if len(report.RecentActivity) > 0 {
				fmt.Println("\nRecent activity:")
				for _, gen := range report.RecentActivity {
					status := "ok"
					if !gen.Success {
						status = "failed"
					}
					fmt.Printf("  %s  %-20s %-8s $%.4f\n",
						gen.Timestamp.Format("2006-01-02 15:04"), gen.Type, status, gen.Cost)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw report as JSON")
	return cmd
}
