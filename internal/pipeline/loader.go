// Package pipeline loads scenarios from storage and runs projections over
// them.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/projection"
)

// Source is the read side of the scenario store.
type Source interface {
	ResolveScenario(ctx context.Context, ref string) (model.Scenario, error)
	ListScenarios(ctx context.Context) ([]model.Scenario, error)
	LoadScenario(ctx context.Context, scenarioID string) (model.ScenarioData, error)
}

// Options control the projection window.
type Options struct {
	Today       model.Date
	HorizonDays int
}

// LoadResult holds one scenario and its projection.
type LoadResult struct {
	Data    model.ScenarioData
	Input   projection.Input
	Result  projection.Result
	Summary Summary
	Err     error
}

// ProgressFunc is called during LoadAll to report progress.
// current is the number of scenarios processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load resolves ref to a scenario and projects it.
func Load(ctx context.Context, src Source, ref string, opts Options) (*LoadResult, error) {
	sc, err := src.ResolveScenario(ctx, ref)
	if err != nil {
		return nil, err
	}
	lr := project(ctx, src, sc.ID, opts)
	if lr.Err != nil {
		return nil, lr.Err
	}
	return &lr, nil
}

// Run projects already-loaded scenario data.
func Run(data model.ScenarioData, opts Options) LoadResult {
	in := projection.InputFrom(data, opts.Today, opts.HorizonDays)
	res := projection.Project(in)
	return LoadResult{
		Data:    data,
		Input:   in,
		Result:  res,
		Summary: Summarize(res),
	}
}

// LoadAll projects every scenario using a bounded worker pool. Results keep
// the store's scenario order; per-scenario failures are reported in Err.
func LoadAll(ctx context.Context, src Source, opts Options, progressFn ProgressFunc) ([]LoadResult, error) {
	scenarios, err := src.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	work := make(chan int, len(scenarios))
	results := make([]LoadResult, len(scenarios))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range scenarios {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					results[idx] = LoadResult{Data: model.ScenarioData{Scenario: scenarios[idx]}, Err: err}
				} else {
					results[idx] = project(ctx, src, scenarios[idx].ID, opts)
				}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(scenarios))
				}
			}
		}()
	}

	wg.Wait()
	return results, ctx.Err()
}

func project(ctx context.Context, src Source, scenarioID string, opts Options) LoadResult {
	data, err := src.LoadScenario(ctx, scenarioID)
	if err != nil {
		return LoadResult{
			Data: model.ScenarioData{Scenario: model.Scenario{ID: scenarioID}},
			Err:  fmt.Errorf("loading scenario %s: %w", scenarioID, err),
		}
	}
	return Run(data, opts)
}
