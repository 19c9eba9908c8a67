package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"surveycoder/internal/store"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage survey coding projects",
}

var projectInitFlags struct {
	question    string
	column      string
	description string
}

var projectInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectInit,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a project as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectUpdateFlags struct {
	question    string
	column      string
	description string
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update project fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUpdate,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project and its codebooks and results",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	f := projectInitCmd.Flags()
	f.StringVarP(&projectInitFlags.question, "question", "q", "", "Survey question (required)")
	f.StringVarP(&projectInitFlags.column, "column", "c", "", "Response column name for CSV input")
	f.StringVar(&projectInitFlags.description, "description", "", "Project description")
	_ = projectInitCmd.MarkFlagRequired("question")

	f = projectUpdateCmd.Flags()
	f.StringVarP(&projectUpdateFlags.question, "question", "q", "", "Survey question")
	f.StringVarP(&projectUpdateFlags.column, "column", "c", "", "Response column name for CSV input")
	f.StringVar(&projectUpdateFlags.description, "description", "", "Project description")

	projectCmd.AddCommand(projectInitCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectInit(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	name := args[0]
	existing, err := st.GetProject(name)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("project %q already exists", name)
	}

	id, err := st.CreateProject(&store.Project{
		Name:        name,
		Description: projectInitFlags.description,
		Question:    projectInitFlags.question,
		Column:      projectInitFlags.column,
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (id %d)\n", name, id)
	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects.")
		return nil
	}
	for _, p := range projects {
		fmt.Fprintf(out, "%-4d %-24s %s\n", p.ID, p.Name, p.Question)
	}
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("question") {
		p.Question = projectUpdateFlags.question
	}
	if flags.Changed("column") {
		p.Column = projectUpdateFlags.column
	}
	if flags.Changed("description") {
		p.Description = projectUpdateFlags.description
	}

	if err := st.UpdateProject(p); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated project %q\n", p.Name)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteProject(p.ID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %q\n", p.Name)
	return nil
}
