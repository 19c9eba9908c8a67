package classify

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestChunk(t *testing.T) {
	responses := []string{"a", "b", "c", "d", "e"}

	batches := Chunk(responses, 2)
	if len(batches) != 3 {
		t.Fatalf("batch count = %d, want 3", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 2 || len(batches[2]) != 1 {
		t.Errorf("batch sizes = %d/%d/%d, want 2/2/1", len(batches[0]), len(batches[1]), len(batches[2]))
	}

	if got := Chunk(nil, 2); got != nil {
		t.Errorf("Chunk(nil) = %v, want nil", got)
	}
	if got := Chunk(responses, 0); len(got) != 1 || len(got[0]) != 5 {
		t.Errorf("Chunk(size=0) = %v, want one batch of 5", got)
	}
	if got := Chunk(responses, 10); len(got) != 1 {
		t.Errorf("Chunk(size=10) batch count = %d, want 1", len(got))
	}
}

// echoBatch builds a batch response labeling every listed response with its
// own text, so tests can verify global alignment by comparing codes to the
// original inputs.
func echoBatch(user string, all []string) string {
	var entries []string
	i := 0
	for _, resp := range all {
		if !strings.Contains(user, fmt.Sprintf("%q", resp)) {
			continue
		}
		entries = append(entries, fmt.Sprintf(
			`{"index": %d, "items": [{"label": %q, "fragment": %q, "pertinence": 1}]}`, i, resp, resp))
		i++
	}
	return fmt.Sprintf(`{"results": [%s]}`, strings.Join(entries, ","))
}

func TestClassifyBatches_PreservesSubmissionOrder(t *testing.T) {
	responses := make([]string, 10)
	for i := range responses {
		responses[i] = fmt.Sprintf("resp-%02d", i)
	}

	// Earlier batches sleep longer so completion order is reversed.
	client := &stubClient{respond: func(_, _, user string) (string, error) {
		delay := 0
		for i, resp := range responses {
			if strings.Contains(user, fmt.Sprintf("%q", resp)) {
				delay = len(responses) - i
				break
			}
		}
		time.Sleep(time.Duration(delay) * 5 * time.Millisecond)
		return echoBatch(user, responses), nil
	}}

	svc := NewService(client, 2, 8)
	got := svc.ClassifyBatches(context.Background(), testRequest(), responses)
	if len(got) != len(responses) {
		t.Fatalf("result len = %d, want %d", len(got), len(responses))
	}
	for i, r := range got {
		if r.AssignedCode != responses[i] {
			t.Errorf("result[%d].AssignedCode = %q, want %q", i, r.AssignedCode, responses[i])
		}
	}
	if client.callCount() != 5 {
		t.Errorf("call count = %d, want 5", client.callCount())
	}
}

func TestClassifyBatches_FailedBatchDoesNotAbortSiblings(t *testing.T) {
	responses := []string{"r0", "r1", "r2", "r3"}

	client := &stubClient{respond: func(_, _, user string) (string, error) {
		if strings.Contains(user, `"r2"`) {
			return "", fmt.Errorf("rate limited")
		}
		return echoBatch(user, responses), nil
	}}

	svc := NewService(client, 2, 8)
	got := svc.ClassifyBatches(context.Background(), testRequest(), responses)
	wantCodes := []string{"r0", "r1", NoCodeApplied, NoCodeApplied}
	for i, want := range wantCodes {
		if got[i].AssignedCode != want {
			t.Errorf("result[%d].AssignedCode = %q, want %q", i, got[i].AssignedCode, want)
		}
	}
}

func TestClassifyBatches_RespectsConcurrencyCap(t *testing.T) {
	responses := make([]string, 12)
	for i := range responses {
		responses[i] = fmt.Sprintf("resp-%02d", i)
	}

	var inFlight, peak atomic.Int64
	client := &stubClient{respond: func(_, _, user string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return echoBatch(user, responses), nil
	}}

	svc := NewService(client, 2, 2)
	svc.ClassifyBatches(context.Background(), testRequest(), responses)
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrent calls = %d, want <= 2", got)
	}
}

func TestClassifyBatches_CancelledContextYieldsDefaults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := fixed(`{"results": []}`)
	svc := NewService(client, 2, 2)
	got := svc.ClassifyBatches(ctx, testRequest(), []string{"a", "b", "c"})
	if len(got) != 3 {
		t.Fatalf("result len = %d, want 3", len(got))
	}
	for i, r := range got {
		if r.AssignedCode != NoCodeApplied {
			t.Errorf("result[%d].AssignedCode = %q, want %q", i, r.AssignedCode, NoCodeApplied)
		}
	}
}
