package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/storyforge-dev/storyforge/internal/analytics"
	"github.com/storyforge-dev/storyforge/internal/prompt"
	"github.com/storyforge-dev/storyforge/internal/service"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate user stories or PRDs",
	}
	cmd.AddCommand(storyCmd(), prdCmd(), batchCmd())
	return cmd
}

// buildService wires store, provider and session for one CLI invocation.
func buildService(cmd *cobra.Command) (*service.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	prov, err := newProvider(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	sid, err := sessionID(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	recorder := analytics.NewRecorder(st, sid)
	if err := recorder.StartSession(cmd.Context(), analytics.SessionMeta{Referrer: "cli"}); err != nil {
		st.Close()
		return nil, nil, err
	}

	svc := service.New(prov, recorder, analytics.NewCounter(st, sid))
	return svc, func() { st.Close() }, nil
}

func printResult(res *service.Result) {
	fmt.Println(res.Content)
	fmt.Fprintf(os.Stderr, "\n[%s] cost $%.4f, %d/%d used", res.Model, res.Cost, res.Used, res.Limit)
	if !res.Validation.Passed {
		fmt.Fprint(os.Stderr, ", validation failed")
	}
	fmt.Fprintln(os.Stderr)
	if res.Warning != "" {
		fmt.Fprintln(os.Stderr, res.Warning)
	}
}

func storyCmd() *cobra.Command {
	var template, goal string

	cmd := &cobra.Command{
		Use:   "story <feature description>",
		Short: "Generate a single user story",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.GenerateUserStory(cmd.Context(), service.StoryRequest{
				Feature:      strings.Join(args, " "),
				Template:     template,
				BusinessGoal: goal,
			})
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", prompt.TemplateScrum, "Story template: scrum, jtbd or simple")
	cmd.Flags().StringVar(&goal, "goal", "", "Business goal label for analytics")
	return cmd
}

func prdCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "prd",
		Short: "Generate a PRD from a YAML input file",
		Long: `Generate a full product requirements document. The input file is a
YAML document whose keys mirror the PRD form fields (product_name,
problem_statement, business_goal, goals, non_goals and so on). Missing
fields are rendered as placeholders for the model to fill in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			var in prompt.PRDInput
			if err := yaml.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse input: %w", err)
			}

			svc, cleanup, err := buildService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.GeneratePRD(cmd.Context(), service.PRDRequest{PRDInput: in})
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "YAML file with PRD form fields")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <feature> [feature...]",
		Short: "Generate one story per feature description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.GenerateStoryBatch(cmd.Context(), args)
			for _, story := range res.Stories {
				fmt.Println(story.Content)
				fmt.Println("---")
			}
			if err != nil {
				return fmt.Errorf("batch stopped after %d stories: %w", len(res.Stories), err)
			}
			return nil
		},
	}
	return cmd
}
