package rayoptics

import "sync"

// Trace runs the full branch-and-bound propagation described in spec.md
// §4.5 for every source against every element, and returns the finalised
// polylines in the order their branches terminate. Trace is a pure
// function: it never mutates elements or sources, and holds no state
// between calls.
func Trace(elements []Element, sources []SourceDescriptor, budgets Budgets) []Polyline {
	var results []Polyline
	for _, src := range sources {
		for _, ray := range src.Emit() {
			results = append(results, traceOneRay(ray, elements, budgets)...)
		}
	}
	return results
}

// TraceParallel is the optimization spec.md §5 explicitly permits: one
// goroutine per initial ray, each running the same sequential stack loop
// as Trace. Within one initial ray's subtree the LIFO order of Trace is
// preserved exactly; across initial rays (and across sources), no
// ordering is guaranteed — callers that need a deterministic comparison
// against Trace's output should sort both by a stable key first.
func TraceParallel(elements []Element, sources []SourceDescriptor, budgets Budgets) []Polyline {
	type job struct{ ray Ray }
	var jobs []job
	for _, src := range sources {
		for _, ray := range src.Emit() {
			jobs = append(jobs, job{ray: ray})
		}
	}

	out := make([][]Polyline, len(jobs))
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, j := range jobs {
		i, j := i, j
		go func() {
			defer wg.Done()
			out[i] = traceOneRay(j.ray, elements, budgets)
		}()
	}
	wg.Wait()

	var results []Polyline
	for _, p := range out {
		results = append(results, p...)
	}
	return results
}

// traceOneRay runs the stack-based depth-first traversal of spec.md §4.5
// for a single initial ray, returning every polyline its branch tree
// finalises.
func traceOneRay(initial Ray, elements []Element, budgets Budgets) []Polyline {
	var results []Polyline
	stack := []Ray{initial}

	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.Intensity < budgets.MinIntensity {
			if p, ok := finalize(r); ok {
				results = append(results, p)
			}
			continue
		}
		if r.EventsSoFar >= budgets.MaxEvents {
			if p, ok := finalize(r); ok {
				results = append(results, p)
			}
			continue
		}
		if r.RemainingLength <= 0 {
			if p, ok := finalize(r); ok {
				results = append(results, p)
			}
			continue
		}

		hit, found := nearestHit(r.Position, r.Direction, elements, r.LastElement, r.RemainingLength, budgets.GeometryEpsilon)
		if !found {
			terminal := r.clone()
			terminal.PathPoints = append(terminal.PathPoints, r.Position.Add(r.Direction.Mul(r.RemainingLength)))
			if p, ok := finalize(terminal); ok {
				results = append(results, p)
			}
			continue
		}

		// Pushed in the order Interact returned them (transmitted before
		// reflected, for every splitting element — see splitOutgoing).
		// Because the stack is LIFO, the last-pushed branch is popped
		// first: the reflected branch's entire subtree is traced to
		// completion before the transmitted branch is even touched. This
		// matches original_source/RaytracingV2.py's trace_all, which
		// pushes in the same order for the same reason.
		outgoing := hit.element.Interact(r, hit.Hit, budgets)
		stack = append(stack, outgoing...)
	}

	return results
}
