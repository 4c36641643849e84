package async

import (
	"context"
	"sync"
	"time"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result is the outcome of a single task run by RunAll.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// RunAll executes tasks in parallel, waits for every one, and returns their
// results in the order the tasks were given.
func RunAll(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := task.Func(ctx)
			results[i] = Result{Name: task.Name, Err: err, Duration: time.Since(start)}
		}()
	}
	wg.Wait()

	return results
}
