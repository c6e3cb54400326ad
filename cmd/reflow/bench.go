package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/reflow-dev/reflow/pkg/reactive"
	"github.com/reflow-dev/reflow/pkg/stores"
)

func benchCmd() *cobra.Command {
	var (
		todos     int
		observers int
		writes    int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure store write and notification throughput",
		Long: `Measure how fast path-level writes move through a store.

The benchmark builds a store holding a todo list, attaches one
observer effect per element (round-robin over the list), then
performs targeted element writes followed by whole-value patches.
It reports writes per second and how many observer runs each
write style caused.

The interesting comparison is notifications per write: element
writes should wake only the matching observer, while a patch that
changes every element wakes all of them.

Examples:
  reflow bench
  reflow bench --todos=10000 --observers=1000 --writes=100000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(todos, observers, writes)
		},
	}

	cmd.Flags().IntVar(&todos, "todos", 1000, "Number of elements in the store's list")
	cmd.Flags().IntVar(&observers, "observers", 100, "Number of observer effects")
	cmd.Flags().IntVar(&writes, "writes", 10000, "Number of writes to perform")

	return cmd
}

func runBench(todoCount, observerCount, writeCount int) error {
	if todoCount <= 0 || observerCount <= 0 || writeCount <= 0 {
		return fmt.Errorf("todos, observers, and writes must all be positive")
	}
	if observerCount > todoCount {
		observerCount = todoCount
	}

	state := demoState{User: "bench", Todos: make([]demoTodo, todoCount)}
	for i := range state.Todos {
		state.Todos[i] = demoTodo{Label: fmt.Sprintf("todo %d", i)}
	}
	store := stores.NewStore(state)

	todosField := stores.NewSubfield(store, 1, func(s *demoState) *[]demoTodo {
		return &s.Todos
	})

	// One effect per observed element; runs counts every re-run across
	// all observers after the initial pass.
	var runs atomic.Int64
	effects := make([]*reactive.Effect, observerCount)
	for i := range effects {
		element := stores.At[demoTodo](todosField, i)
		effects[i] = reactive.NewEffect(func() reactive.Cleanup {
			if v, ok := stores.Get[demoTodo](element); ok {
				_ = v.Done
			}
			runs.Add(1)
			return nil
		})
	}
	runs.Store(0)

	// Phase 1: writes targeted at single elements.
	start := time.Now()
	for i := 0; i < writeCount; i++ {
		element := stores.At[demoTodo](todosField, i%observerCount)
		stores.Update(element, func(t *demoTodo) {
			t.Done = !t.Done
		})
	}
	elementElapsed := time.Since(start)
	elementRuns := runs.Swap(0)

	// Phase 2: whole-value patches flipping every observed element, so
	// the diff touches all of them. The patch value gets its own slice
	// so mutating it never reaches through to the store's state.
	patchCount := writeCount / 10
	if patchCount == 0 {
		patchCount = 1
	}
	start = time.Now()
	for i := 0; i < patchCount; i++ {
		cur, _ := stores.GetUntracked[demoState](store)
		patched := demoState{
			User:  fmt.Sprintf("bench %d", i),
			Todos: append([]demoTodo(nil), cur.Todos...),
		}
		for j := 0; j < observerCount; j++ {
			patched.Todos[j].Done = i%2 == 0
		}
		store.Patch(patched)
	}
	patchElapsed := time.Since(start)
	patchRuns := runs.Load()

	for _, e := range effects {
		e.Dispose()
	}

	fmt.Printf("store: %d todos, %d observers, %d live triggers\n\n",
		todoCount, observerCount, store.TriggerCount())

	fmt.Printf("element writes: %d in %v (%.0f writes/sec)\n",
		writeCount, elementElapsed.Round(time.Millisecond),
		float64(writeCount)/elementElapsed.Seconds())
	fmt.Printf("  observer runs: %d (%.2f per write)\n\n",
		elementRuns, float64(elementRuns)/float64(writeCount))

	fmt.Printf("patches: %d in %v (%.0f patches/sec)\n",
		patchCount, patchElapsed.Round(time.Millisecond),
		float64(patchCount)/patchElapsed.Seconds())
	fmt.Printf("  observer runs: %d (%.2f per patch)\n",
		patchRuns, float64(patchRuns)/float64(patchCount))

	return nil
}
