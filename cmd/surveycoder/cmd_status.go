package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"surveycoder/internal/store"
)

var statusFlags struct {
	project string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and project state",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusFlags.project, "project", "p", "", "Limit to one project")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider:       %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "Model:          %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "Analyst model:  %s\n", cfg.LLM.AnalystModel)
	fmt.Fprintf(out, "Batch size:     %d\n", cfg.Pipeline.BatchSize)
	fmt.Fprintf(out, "Concurrency:    %d\n", cfg.Pipeline.Concurrency)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	if statusFlags.project != "" {
		p, err := requireProject(st, statusFlags.project)
		if err != nil {
			return err
		}
		projects = []*store.Project{p}
	}

	fmt.Fprintf(out, "\nProjects: %d\n", len(projects))
	for _, p := range projects {
		cv, err := st.LatestCodebook(p.ID)
		if err != nil {
			return fmt.Errorf("latest codebook: %w", err)
		}
		results, err := st.ListClassifications(p.ID)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		codebookInfo := "no codebook"
		if cv != nil {
			codebookInfo = fmt.Sprintf("codebook v%d", cv.Version)
		}
		fmt.Fprintf(out, "  %-24s %-14s %d results\n", p.Name, codebookInfo, len(results))
	}
	return nil
}
