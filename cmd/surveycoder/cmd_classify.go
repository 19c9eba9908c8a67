package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"surveycoder/internal/classify"
	"surveycoder/internal/codebook"
	"surveycoder/internal/dataset"
	"surveycoder/internal/logging"
)

var classifyFlags struct {
	input      string
	text       string
	column     string
	version    int
	multiLabel bool
	explain    bool
	noSave     bool
	output     string
}

var classifyCmd = &cobra.Command{
	Use:   "classify <project>",
	Short: "Classify survey responses against a project codebook",
	Long: "Classifies every response in the input file against the project's\n" +
		"codebook. Responses are batched and classified concurrently; results\n" +
		"keep input order and are persisted unless --no-save is given.",
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVarP(&classifyFlags.input, "input", "i", "", "Responses file, CSV or plain text")
	f.StringVarP(&classifyFlags.text, "text", "t", "", "Classify a single inline response instead of a file")
	f.StringVarP(&classifyFlags.column, "column", "c", "", "CSV column override (default from project)")
	f.IntVar(&classifyFlags.version, "codebook-version", 0, "Codebook version to classify against (0 = latest)")
	f.BoolVar(&classifyFlags.multiLabel, "multi-label", false, "Assign every applicable code instead of the single best one")
	f.BoolVar(&classifyFlags.explain, "explain", false, "Include a short explanation per assigned code")
	f.BoolVar(&classifyFlags.noSave, "no-save", false, "Do not persist results")
	f.StringVarP(&classifyFlags.output, "output", "o", "", "Also write results to a JSON file")
	classifyCmd.MarkFlagsOneRequired("input", "text")
	classifyCmd.MarkFlagsMutuallyExclusive("input", "text")
}

// classifiedRow is the JSON output row pairing a response with its result.
type classifiedRow struct {
	Response     string              `json:"response"`
	AssignedCode string              `json:"assigned_code"`
	Details      []classify.Evidence `json:"details"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := logging.New("classify-cmd")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := requireProject(st, args[0])
	if err != nil {
		return err
	}
	cv, cb, err := requireCodebook(st, p, classifyFlags.version)
	if err != nil {
		return err
	}

	var responses []string
	if classifyFlags.text != "" {
		responses = []string{classifyFlags.text}
	} else {
		column := classifyFlags.column
		if column == "" {
			column = p.Column
		}
		responses, err = dataset.LoadResponses(classifyFlags.input, column)
		if err != nil {
			return err
		}
		if len(responses) == 0 {
			return fmt.Errorf("no responses in %s", classifyFlags.input)
		}
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	req := classify.Request{
		Question:           p.Question,
		CodebookText:       codebook.RenderText(cb),
		Model:              cfg.LLM.Model,
		MultiLabel:         classifyFlags.multiLabel,
		IncludeExplanation: classifyFlags.explain,
	}
	log.Info("classifying responses",
		"project", p.Name, "codebook_version", cv.Version,
		"responses", len(responses), "batch_size", cfg.Pipeline.BatchSize)

	results := svc.ClassifyBatches(cmd.Context(), req, responses)

	coded := 0
	for _, r := range results {
		if r.AssignedCode != classify.NoCodeApplied {
			coded++
		}
	}

	out := cmd.OutOrStdout()
	if classifyFlags.text != "" {
		fmt.Fprintf(out, "Assigned: %s\n", results[0].AssignedCode)
		for _, d := range results[0].Details {
			fmt.Fprintf(out, "  %s (%.2f): %q\n", d.Label, d.Pertinence, d.Fragment)
			if d.Explanation != "" {
				fmt.Fprintf(out, "    %s\n", d.Explanation)
			}
		}
	} else {
		fmt.Fprintf(out, "Classified %d responses (%d coded, %d unmatched)\n",
			len(results), coded, len(results)-coded)
	}

	if !classifyFlags.noSave {
		saved := classify.SaveResults(st, log, p.ID, cv.ID, responses, results)
		fmt.Fprintf(out, "Saved %d results to project %q\n", saved, p.Name)
	}

	if classifyFlags.output != "" {
		rows := make([]classifiedRow, len(results))
		for i, r := range results {
			rows[i] = classifiedRow{Response: responses[i], AssignedCode: r.AssignedCode, Details: r.Details}
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		if err := os.WriteFile(classifyFlags.output, data, 0644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		fmt.Fprintf(out, "Wrote results to %s\n", classifyFlags.output)
	}
	return nil
}
