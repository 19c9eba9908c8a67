package classify

import (
	"fmt"
	"strings"
)

// System messages per flow.
const (
	systemCoder      = "You are a survey coding assistant."
	systemMultiCoder = "You are a multi-label survey coding assistant."
	systemAnalyst    = "You are an expert survey analyst."
	systemMerger     = "You are a master survey analyst."
)

// codebookSchema is the expected-output schema text for codebook
// generation and merge calls.
const codebookSchema = `{ "codes": [ { "code": string, "description": string, "examples": string[] } ] }`

// explanationField returns the schema fragment and instruction note for the
// optional explanation field. When explanations are disabled the field is
// omitted from the schema and explicitly forbidden in the note.
func explanationField(include bool) (field, note string) {
	if include {
		return `, "explanation": string`, ""
	}
	return "", "\nDo NOT include an \"explanation\" field."
}

// singlePrompt builds the single-label classification prompt for one
// response: pick the single best code and return exactly one item.
func singlePrompt(req Request, response string) (system, user string) {
	field, note := explanationField(req.IncludeExplanation)
	user = fmt.Sprintf(`Classify the response based on the codebook. Choose the single best code and provide evidence.
Question: "%s"
Codebook:
---
%s
---
Response: "%s"
Return ONLY a JSON object with this schema:
{
  "items": [
    { "label": string, "fragment": string, "pertinence": number (0-1)%s }
  ]
}%s
For single-label, the list MUST contain exactly one item.
`, req.Question, req.CodebookText, response, field, note)
	return systemCoder, user
}

// multiPrompt builds the multi-label variant: identify every applicable
// theme, with an explicit empty-list convention when nothing applies.
func multiPrompt(req Request, response string) (system, user string) {
	field, note := explanationField(req.IncludeExplanation)
	user = fmt.Sprintf(`Analyze the response and identify ALL themes from the codebook that are present.
Question: "%s"
Codebook:
---
%s
---
Response: "%s"
Return ONLY a JSON object with this schema:
{
  "items": [
    { "label": string, "fragment": string, "pertinence": number (0-1)%s }
  ]
}%s
If no codes apply, return { "items": [] }.
`, req.Question, req.CodebookText, response, field, note)
	return systemMultiCoder, user
}

// batchPrompt builds the indexed batch prompt: every response is listed as
// `[i] "text"` and the model must return one entry per index.
func batchPrompt(req Request, responses []string) (system, user string) {
	indexed := make([]string, 0, len(responses))
	for i, resp := range responses {
		indexed = append(indexed, fmt.Sprintf("[%d] %q", i, resp))
	}

	field, note := explanationField(req.IncludeExplanation)
	singleRule := ""
	if !req.MultiLabel {
		singleRule = "For single-label, each items list MUST contain exactly one item."
	}

	user = fmt.Sprintf(`Analyze the indexed responses against the codebook.
Question: "%s"
Codebook:
---
%s
---
Responses (indexed):
%s
Return ONLY JSON with this schema:
{
  "results": [
    { "index": number, "items": [ { "label": string, "fragment": string, "pertinence": number (0-1)%s } ] }
  ]
}%s
%s
For uncovered responses, use an empty list for items.
`, req.Question, req.CodebookText, strings.Join(indexed, "\n"), field, note, singleRule)
	return systemCoder, user
}

// generatePrompt asks the model to synthesize a codebook from example
// responses: themed codes with descriptions, 3-5 verbatim examples each,
// and always a catch-all "Other" code.
func generatePrompt(question string, examples []string) (system, user string) {
	quoted := make([]string, 0, len(examples))
	for _, ex := range examples {
		quoted = append(quoted, fmt.Sprintf("%q", ex))
	}

	user = fmt.Sprintf(`Analyze the survey question and responses to create a thematic codebook.
**Question:** "%s" **Responses:**
[%s]

Identify themes, define a code and description for each, and select 3-5 verbatim examples. Include an "Other" code.

Return ONLY a JSON object with this exact schema: %s`, question, strings.Join(quoted, "\n"), codebookSchema)
	return systemAnalyst, user
}

// mergePrompt asks the model to consolidate two codebooks. User-supplied
// instructions, when present, are appended in a delimited section the model
// is told it MUST obey, overriding the general guidance.
func mergePrompt(baseJSON, otherJSON, instructions string) (system, user string) {
	user = fmt.Sprintf(`You are a master survey analyst consolidating two codebooks. Your goal is to create the most accurate final codebook.
**Codebook A:**
%s
**Codebook B:**
%s

**Analytical Process:**
1.  Identify codes with similar themes.
2.  For similar codes, examine their `+"`examples`"+` and evaluate if it is possible to separate the examples into two more distinct codes. If they are truly redundant, consolidate them.
3.  Retain unique codes. Each code has to refer to a unique concept.`, baseJSON, otherJSON)

	if instructions != "" {
		user += fmt.Sprintf(`

**CRITICAL USER INSTRUCTIONS:**
You MUST follow these instructions. They override general guidance.
---
%s
---`, instructions)
	}

	user += fmt.Sprintf("\n\nReturn ONLY a JSON object with this exact schema: %s", codebookSchema)
	return systemMerger, user
}
