package classify

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Chunk splits responses into consecutive batches of at most size elements.
// The last batch may be shorter. Non-positive size means one batch.
func Chunk(responses []string, size int) [][]string {
	if len(responses) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]string{responses}
	}
	batches := make([][]string, 0, (len(responses)+size-1)/size)
	for start := 0; start < len(responses); start += size {
		end := start + size
		if end > len(responses) {
			end = len(responses)
		}
		batches = append(batches, responses[start:end])
	}
	return batches
}

// ClassifyBatches classifies all responses: they are chunked into batches of
// at most the configured batch size and dispatched under the configured
// concurrency cap. The returned slice matches responses in length and order
// regardless of batch completion order. A failed or cancelled batch leaves
// its slots at the default result without aborting sibling batches.
func (s *Service) ClassifyBatches(ctx context.Context, req Request, responses []string) []Result {
	results := defaultResults(len(responses))
	if len(responses) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	offset := 0
	for _, batch := range Chunk(responses, s.batchSize) {
		off, b := offset, batch
		offset += len(batch)
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			// Each batch writes a disjoint range of results.
			copy(results[off:off+len(b)], s.ClassifyBatch(gctx, req, b))
			return nil
		})
	}
	g.Wait()
	return results
}
