package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"surveycoder/internal/codebook"
	"surveycoder/internal/dataset"
)

var codebookCmd = &cobra.Command{
	Use:   "codebook",
	Short: "Generate, import, export, and merge project codebooks",
}

var codebookGenerateFlags struct {
	input  string
	column string
	limit  int
}

var codebookGenerateCmd = &cobra.Command{
	Use:   "generate <project>",
	Short: "Generate a codebook from example responses with the analyst model",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodebookGenerate,
}

var codebookImportFlags struct {
	file string
}

var codebookImportCmd = &cobra.Command{
	Use:   "import <project>",
	Short: "Import a codebook from a JSON or CSV file as a new version",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodebookImport,
}

var codebookExportFlags struct {
	file    string
	version int
}

var codebookExportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export a codebook version to a JSON or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodebookExport,
}

var codebookMergeFlags struct {
	file         string
	instructions string
}

var codebookMergeCmd = &cobra.Command{
	Use:   "merge <project>",
	Short: "Merge an external codebook into the latest version with the analyst model",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodebookMerge,
}

var codebookShowFlags struct {
	version int
	asJSON  bool
}

var codebookShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show a codebook version",
	Args:  cobra.ExactArgs(1),
	RunE:  runCodebookShow,
}

func init() {
	f := codebookGenerateCmd.Flags()
	f.StringVarP(&codebookGenerateFlags.input, "input", "i", "", "Responses file, CSV or plain text (required)")
	f.StringVarP(&codebookGenerateFlags.column, "column", "c", "", "CSV column override (default from project)")
	f.IntVar(&codebookGenerateFlags.limit, "limit", 100, "Max responses to send to the model (0 = all)")
	_ = codebookGenerateCmd.MarkFlagRequired("input")

	f = codebookImportCmd.Flags()
	f.StringVarP(&codebookImportFlags.file, "file", "f", "", "Codebook file, .json or .csv (required)")
	_ = codebookImportCmd.MarkFlagRequired("file")

	f = codebookExportCmd.Flags()
	f.StringVarP(&codebookExportFlags.file, "file", "f", "", "Output file, .json or .csv (required)")
	f.IntVar(&codebookExportFlags.version, "version", 0, "Codebook version (0 = latest)")
	_ = codebookExportCmd.MarkFlagRequired("file")

	f = codebookMergeCmd.Flags()
	f.StringVarP(&codebookMergeFlags.file, "file", "f", "", "Codebook file to merge in, .json or .csv (required)")
	f.StringVar(&codebookMergeFlags.instructions, "instructions", "", "Extra instructions for the merge")
	_ = codebookMergeCmd.MarkFlagRequired("file")

	f = codebookShowCmd.Flags()
	f.IntVar(&codebookShowFlags.version, "version", 0, "Codebook version (0 = latest)")
	f.BoolVar(&codebookShowFlags.asJSON, "json", false, "Print JSON instead of codebook text")

	codebookCmd.AddCommand(codebookGenerateCmd)
	codebookCmd.AddCommand(codebookImportCmd)
	codebookCmd.AddCommand(codebookExportCmd)
	codebookCmd.AddCommand(codebookMergeCmd)
	codebookCmd.AddCommand(codebookShowCmd)
}

// saveCodebookVersion marshals and stores cb as a new version for the project.
func saveCodebookVersion(cmd *cobra.Command, projectName string, cb *codebook.Codebook) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, projectName)
	if err != nil {
		return err
	}
	data, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("marshal codebook: %w", err)
	}
	cv, err := st.SaveCodebook(p.ID, data)
	if err != nil {
		return fmt.Errorf("save codebook: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved codebook v%d for %q (%d codes)\n", cv.Version, p.Name, len(cb.Codes))
	return nil
}

func runCodebookGenerate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	p, err := requireProject(st, args[0])
	if err != nil {
		st.Close()
		return err
	}
	st.Close()

	column := codebookGenerateFlags.column
	if column == "" {
		column = p.Column
	}
	responses, err := dataset.LoadResponses(codebookGenerateFlags.input, column)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		return fmt.Errorf("no responses in %s", codebookGenerateFlags.input)
	}
	if limit := codebookGenerateFlags.limit; limit > 0 && len(responses) > limit {
		responses = responses[:limit]
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	cb := svc.GenerateCodebook(cmd.Context(), cfg.LLM.AnalystModel, p.Question, responses)
	if cb == nil || cb.Empty() {
		return fmt.Errorf("codebook generation produced no usable codebook")
	}
	return saveCodebookVersion(cmd, p.Name, cb)
}

func runCodebookImport(cmd *cobra.Command, args []string) error {
	cb, err := codebook.Load(codebookImportFlags.file)
	if err != nil {
		return err
	}
	if cb.Empty() {
		return fmt.Errorf("codebook file %s has no codes", codebookImportFlags.file)
	}
	return saveCodebookVersion(cmd, args[0], cb)
}

func runCodebookExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	cv, cb, err := requireCodebook(st, p, codebookExportFlags.version)
	if err != nil {
		return err
	}
	if err := codebook.Save(cb, codebookExportFlags.file); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported codebook v%d to %s\n", cv.Version, codebookExportFlags.file)
	return nil
}

func runCodebookMerge(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	p, err := requireProject(st, args[0])
	if err != nil {
		st.Close()
		return err
	}
	_, base, err := requireCodebook(st, p, 0)
	if err != nil {
		st.Close()
		return err
	}
	st.Close()

	other, err := codebook.Load(codebookMergeFlags.file)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	merged := svc.MergeCodebooks(cmd.Context(), cfg.LLM.AnalystModel, base, other, codebookMergeFlags.instructions)
	if merged == nil || merged.Empty() {
		return fmt.Errorf("codebook merge produced no usable codebook")
	}
	return saveCodebookVersion(cmd, p.Name, merged)
}

func runCodebookShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	cv, cb, err := requireCodebook(st, p, codebookShowFlags.version)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if codebookShowFlags.asJSON {
		data, err := cb.MarshalIndent()
		if err != nil {
			return fmt.Errorf("marshal codebook: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintf(out, "Codebook v%d for %q (%d codes):\n\n", cv.Version, p.Name, len(cb.Codes))
	fmt.Fprintln(out, codebook.RenderText(cb))
	return nil
}
