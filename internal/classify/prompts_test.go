package classify

import (
	"strings"
	"testing"
)

func TestBatchPrompt_IndexedListing(t *testing.T) {
	_, user := batchPrompt(testRequest(), []string{"too expensive", "loved it"})
	for _, want := range []string{`[0] "too expensive"`, `[1] "loved it"`} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q:\n%s", want, user)
		}
	}
	if !strings.Contains(user, testRequest().CodebookText) {
		t.Error("prompt missing codebook text")
	}
}

func TestBatchPrompt_SingleLabelRule(t *testing.T) {
	req := testRequest()
	_, user := batchPrompt(req, []string{"a"})
	if !strings.Contains(user, "exactly one item") {
		t.Error("single-label prompt missing exactly-one rule")
	}

	req.MultiLabel = true
	_, user = batchPrompt(req, []string{"a"})
	if strings.Contains(user, "exactly one item") {
		t.Error("multi-label prompt should not carry the exactly-one rule")
	}
}

func TestPrompts_ExplanationToggle(t *testing.T) {
	req := testRequest()
	_, user := singlePrompt(req, "a")
	if strings.Contains(user, `"explanation": string`) {
		t.Error("explanation field present with explanations disabled")
	}
	if !strings.Contains(user, `Do NOT include an "explanation" field`) {
		t.Error("missing explanation prohibition note")
	}

	req.IncludeExplanation = true
	_, user = singlePrompt(req, "a")
	if !strings.Contains(user, `"explanation": string`) {
		t.Error("explanation field missing with explanations enabled")
	}
	if strings.Contains(user, "Do NOT include") {
		t.Error("prohibition note present with explanations enabled")
	}
}

func TestMergePrompt_Instructions(t *testing.T) {
	_, user := mergePrompt(`{"codes":[]}`, `{"codes":[]}`, "")
	if strings.Contains(user, "CRITICAL USER INSTRUCTIONS") {
		t.Error("instructions section present without instructions")
	}

	_, user = mergePrompt(`{"codes":[]}`, `{"codes":[]}`, "Keep the Other code.")
	if !strings.Contains(user, "CRITICAL USER INSTRUCTIONS") {
		t.Error("missing instructions section")
	}
	if !strings.Contains(user, "Keep the Other code.") {
		t.Error("missing instruction text")
	}
}

func TestGeneratePrompt_IncludesOtherCodeRequirement(t *testing.T) {
	system, user := generatePrompt("Why did you cancel?", []string{"too pricey"})
	if system != systemAnalyst {
		t.Errorf("system = %q, want analyst", system)
	}
	for _, want := range []string{`"Why did you cancel?"`, `"too pricey"`, `"Other"`, "3-5 verbatim examples"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
