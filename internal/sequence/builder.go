// Package sequence turns one project's flat action list plus
// classifier-proposed edges into a guaranteed-acyclic LinkedProject.
package sequence

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"nexus/internal/classifier"
	"nexus/internal/types"
)

const defaultConcurrency = 4

// Builder links dependencies for projects. The zero value is not usable;
// construct with NewBuilder.
type Builder struct {
	Classifier classifier.Classifier

	// Concurrency bounds how many projects LinkAll processes at once.
	// Zero means a small default. Projects share no mutable state, so the
	// only pressure here is classifier fan-out.
	Concurrency int
}

func NewBuilder(c classifier.Classifier) *Builder {
	return &Builder{Classifier: c}
}

// Link resolves dependencies for a single project. The classifier is queried
// exactly once, and only when the project has two or more actions: with 0 or
// 1 actions no pair can exist. Malformed classifier output (out-of-range
// indices, self-loops) is filtered locally; cycles are repaired locally.
// Only classifier invocation failure is surfaced, failing this project's
// build alone.
func (b *Builder) Link(ctx context.Context, project types.Project) (types.LinkedProject, error) {
	n := len(project.Actions)
	if n <= 1 {
		return linked(project, nil), nil
	}

	edges, err := b.Classifier.ProposeEdges(ctx, project.Name, project.Actions)
	if err != nil {
		return types.LinkedProject{}, fmt.Errorf("link %q: %w", project.Name, err)
	}

	valid := sanitize(n, edges)
	if hasCycle(n, pairs(valid)) {
		valid = breakCycles(n, valid)
	}

	dependsOn := make(map[int][]int, n)
	for _, e := range valid {
		dependsOn[e.ToIdx] = append(dependsOn[e.ToIdx], e.FromIdx)
	}
	return linked(project, dependsOn), nil
}

// LinkAll links every project in the batch. Projects are independent, so
// they are processed with bounded fan-out; output preserves input order.
// A failing project is dropped from the output and logged. The returned
// error is non-nil only when every project in a non-empty batch failed,
// wrapping the first failure.
func (b *Builder) LinkAll(ctx context.Context, projects []types.Project) ([]types.LinkedProject, error) {
	if len(projects) == 0 {
		return []types.LinkedProject{}, nil
	}

	limit := b.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	results := make([]*types.LinkedProject, len(projects))
	errs := make([]error, len(projects))

	var wg sync.WaitGroup
	sem := make(chan struct{}, limit)
	for i, p := range projects {
		wg.Add(1)
		go func(i int, p types.Project) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			lp, err := b.Link(ctx, p)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = &lp
		}(i, p)
	}
	wg.Wait()

	out := make([]types.LinkedProject, 0, len(projects))
	var firstErr error
	for i := range projects {
		if errs[i] != nil {
			log.Printf("sequence: dropping project %q: %v", projects[i].Name, errs[i])
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		out = append(out, *results[i])
	}
	if len(out) == 0 && firstErr != nil {
		return out, fmt.Errorf("sequence: all %d projects failed: %w", len(projects), firstErr)
	}
	return out, nil
}

// sanitize drops edges whose endpoints fall outside [0,n) or that point at
// their own action. Recovered locally, never surfaced.
func sanitize(n int, edges []types.DependencyEdge) []types.DependencyEdge {
	out := make([]types.DependencyEdge, 0, len(edges))
	for _, e := range edges {
		if e.FromIdx < 0 || e.FromIdx >= n || e.ToIdx < 0 || e.ToIdx >= n {
			continue
		}
		if e.FromIdx == e.ToIdx {
			continue
		}
		out = append(out, e)
	}
	return out
}

// breakCycles rebuilds the edge set so the result is acyclic, sacrificing
// the cheapest edges: candidates are admitted from highest confidence down,
// and an edge that would close a cycle against already-admitted edges is
// dropped. Lowest-confidence edges are therefore the first to go. This
// greedy pass does not minimize the number of dropped edges, and that
// approximation is deliberate — see the project design notes.
func breakCycles(n int, edges []types.DependencyEdge) []types.DependencyEdge {
	ordered := make([]types.DependencyEdge, len(edges))
	copy(ordered, edges)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	kept := make([]types.DependencyEdge, 0, len(ordered))
	for _, e := range ordered {
		candidate := append(pairs(kept), edgePair{from: e.FromIdx, to: e.ToIdx})
		if hasCycle(n, candidate) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// linked produces the LinkedProject preserving input order and indices.
func linked(project types.Project, dependsOn map[int][]int) types.LinkedProject {
	actions := make([]types.LinkedAction, len(project.Actions))
	for i, a := range project.Actions {
		actions[i] = types.LinkedAction{
			Action:       a,
			DependsOn:    types.SortedUnique(dependsOn[i]),
			ResponseType: types.ResponseTypeFor(a.Urgency),
		}
	}
	return types.LinkedProject{Name: project.Name, Actions: actions}
}
