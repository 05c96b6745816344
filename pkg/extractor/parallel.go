package extractor

import (
	"context"
	"sync"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// minChunk keeps small inputs on a single goroutine.
const minChunk = 1024

// ExtractLines extracts every matching line, preserving input order.
//
// With workers > 1 the input is split into contiguous chunks processed
// concurrently. Each result lands in the slot of its input index, and the
// slots are compacted in index order afterwards, so completion order never
// affects record order.
func (e *Extractor) ExtractLines(ctx context.Context, lines []string, workers int) ([]record.LogRecord, error) {
	if workers < 1 {
		workers = 1
	}
	if limit := (len(lines) + minChunk - 1) / minChunk; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		return e.extractSequential(ctx, lines)
	}

	type slot struct {
		rec record.LogRecord
		ok  bool
	}
	slots := make([]slot, len(lines))

	chunk := (len(lines) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(lines); start += chunk {
		end := start + chunk
		if end > len(lines) {
			end = len(lines)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				slots[i].rec, slots[i].ok = e.Extract(lines[i])
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]record.LogRecord, 0, len(lines))
	for _, s := range slots {
		if s.ok {
			records = append(records, s.rec)
		}
	}
	return records, nil
}

func (e *Extractor) extractSequential(ctx context.Context, lines []string) ([]record.LogRecord, error) {
	records := make([]record.LogRecord, 0, len(lines))
	for i, line := range lines {
		if i%minChunk == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if rec, ok := e.Extract(line); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}
