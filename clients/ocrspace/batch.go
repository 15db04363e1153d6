package ocrspace

import (
	"context"

	"github.com/Abraxas-365/ocrspace/asyncx"
)

// DefaultBatchConcurrency is used by ParseFiles when concurrency is not positive
const DefaultBatchConcurrency = 2

// BatchResult is the outcome for one path of ParseFiles
type BatchResult struct {
	Path   string
	Result *Result
	Err    error
}

// ParseFiles parses every path with ParseFromLocalFile, at most concurrency at
// a time. Results keep the order of paths; a failing file does not stop the rest.
func (c *Client) ParseFiles(ctx context.Context, paths []string, opts Options, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = DefaultBatchConcurrency
	}

	outcomes := asyncx.Map(ctx, paths, concurrency, func(ctx context.Context, path string) (*Result, error) {
		return c.ParseFromLocalFile(ctx, path, opts)
	})

	results := make([]BatchResult, len(paths))
	for i, o := range outcomes {
		results[i] = BatchResult{Path: paths[i], Result: o.Value, Err: o.Err}
	}
	return results
}
