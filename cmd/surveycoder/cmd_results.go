package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect and export saved classification results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List saved results, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsList,
}

var resultsExportFlags struct {
	file string
}

var resultsExportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export saved results to a JSON or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsExport,
}

func init() {
	f := resultsExportCmd.Flags()
	f.StringVarP(&resultsExportFlags.file, "file", "f", "", "Output file, .json or .csv (required)")
	_ = resultsExportCmd.MarkFlagRequired("file")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsExportCmd)
}

func runResultsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	list, err := st.ListClassifications(p.ID)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	for _, c := range list {
		response := c.Response
		if len(response) > 60 {
			response = response[:57] + "..."
		}
		fmt.Fprintf(out, "%-6d %-30s %s\n", c.ID, c.AssignedCode, response)
	}
	return nil
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	list, err := st.ListClassifications(p.ID)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	path := resultsExportFlags.file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create results file: %w", err)
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write([]string{"id", "response", "assigned_code", "created_at"}); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for _, c := range list {
			if err := w.Write([]string{
				fmt.Sprintf("%d", c.ID), c.Response, c.AssignedCode, c.CreatedAt,
			}); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}
	default:
		return fmt.Errorf("unsupported results format %q (use .json or .csv)", filepath.Ext(path))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d results to %s\n", len(list), path)
	return nil
}
