package classify

import (
	"encoding/json"
	"log/slog"

	"surveycoder/internal/store"
)

// SaveResults persists per-response classifications for a project. A failed
// save is logged and skipped so one bad row does not lose the rest of the
// run. Returns the number of rows saved.
func SaveResults(st store.Store, log *slog.Logger, projectID, codebookID int64, responses []string, results []Result) int {
	saved := 0
	for i, res := range results {
		if i >= len(responses) {
			break
		}
		details, err := json.Marshal(res.Details)
		if err != nil {
			log.Warn("marshal result details failed", "index", i, "error", err)
			details = nil
		}
		_, err = st.SaveClassification(&store.Classification{
			ProjectID:    projectID,
			CodebookID:   codebookID,
			Response:     responses[i],
			AssignedCode: res.AssignedCode,
			Details:      details,
		})
		if err != nil {
			log.Warn("save classification failed", "index", i, "error", err)
			continue
		}
		saved++
	}
	return saved
}
