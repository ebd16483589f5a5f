package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// ConversionResult holds the outcome of one document in one stage.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
	Skipped    bool // output up to date, nothing rebuilt
	Diagrams   int
}

// convertFunc builds one document with an acquired converter.
type convertFunc func(ctx context.Context, conv Converter, job docJob) ConversionResult

// convertBatch processes jobs concurrently, one worker per pool slot.
// Results keep the order of jobs.
func convertBatch(ctx context.Context, pool Pool, jobs []docJob, fn convertFunc) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]ConversionResult, len(jobs))
	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, fail the jobs this worker takes.
				for idx := range queue {
					results[idx] = ConversionResult{InputPath: jobs[idx].Doc.Source, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: jobs[idx].Doc.Source, Err: ctx.Err()}
					continue
				}
				results[idx] = fn(ctx, conv, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// ResultSummary counts the outcomes of a build.
type ResultSummary struct {
	Built    int
	Skipped  int
	Failed   int
	Diagrams int
}

// countResults tallies built, skipped and failed outputs.
func countResults(results []ConversionResult) ResultSummary {
	var s ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Skipped:
			s.Skipped++
		default:
			s.Built++
			s.Diagrams += r.Diagrams
		}
	}
	return s
}

// printResults reports every result and returns the summary.
// Failures always go to stderr; quiet hides the rest.
func printResults(results []ConversionResult, quiet, verbose bool, stdout, stderr io.Writer) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		if quiet {
			continue
		}
		switch {
		case r.Skipped:
			if verbose {
				fmt.Fprintf(stdout, "Up to date %s\n", r.OutputPath)
			}
		case verbose:
			fmt.Fprintf(stdout, "%s -> %s (%v, %d diagrams)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), r.Diagrams)
		default:
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d built, %d up to date, %d failed\n", summary.Built, summary.Skipped, summary.Failed)
	}

	return summary
}
