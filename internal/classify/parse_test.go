package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no lang", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", `Here is the result: {"a": 1}`, `{"a": 1}`},
		{"trailing prose", `{"a": 1} Hope that helps!`, `{"a": 1}`},
		{"whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSON(tt.in); got != tt.want {
				t.Errorf("cleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	got, err := parseJSON[Output]("```json\n{\"items\": [{\"label\": \"A\", \"fragment\": \"f\", \"pertinence\": 0.5}]}\n```")
	if err != nil {
		t.Fatal(err)
	}
	want := &Output{Items: []Evidence{{Label: "A", Fragment: "f", Pertinence: 0.5}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parsed output mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseJSON[Output]("not json at all"); err == nil {
		t.Error("expected error for non-JSON input")
	}
}
