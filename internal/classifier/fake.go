package classifier

import (
	"context"
	"sync"

	"nexus/internal/types"
)

// Fake is an in-memory classifier for tests: scripted edges per project
// name, optional error, and a call counter.
type Fake struct {
	mu     sync.Mutex
	Edges  map[string][]types.DependencyEdge
	Err    error
	called map[string]int
}

func NewFake() *Fake {
	return &Fake{
		Edges:  make(map[string][]types.DependencyEdge),
		called: make(map[string]int),
	}
}

func (f *Fake) ProposeEdges(ctx context.Context, projectName string, actions []types.Action) ([]types.DependencyEdge, error) {
	f.mu.Lock()
	f.called[projectName]++
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Edges[projectName], nil
}

// Calls returns how many times ProposeEdges ran for the given project.
func (f *Fake) Calls(projectName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called[projectName]
}

// TotalCalls returns the number of ProposeEdges invocations across projects.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.called {
		n += c
	}
	return n
}
