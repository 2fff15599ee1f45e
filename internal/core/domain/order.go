package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

type frame struct {
	task *Task
	deps []*Task
	next int
}

// TopologicalSort orders tasks so every task comes after all of its
// dependencies. Tasks are identified by output: a dependency whose output is
// in tasks is replaced by the listed task, and dependencies that are not
// listed are discovered and included. Independent tasks follow the order of
// tasks. A cycle is reported as ErrCycleDetected.
func TopologicalSort(tasks []*Task) ([]*Task, error) {
	registered := make(map[Path]*Task, len(tasks))
	for _, t := range tasks {
		if _, ok := registered[t.Output()]; !ok {
			registered[t.Output()] = t
		}
	}
	canonical := func(t *Task) *Task {
		if r, ok := registered[t.Output()]; ok {
			return r
		}
		return t
	}

	state := make(map[Path]visitState, len(tasks))
	sorted := make([]*Task, 0, len(tasks))

	for _, root := range tasks {
		root = canonical(root)
		if state[root.Output()] != unvisited {
			continue
		}

		state[root.Output()] = visiting
		stack := []*frame{{task: root, deps: slices.Collect(root.Dependencies())}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next == len(top.deps) {
				state[top.task.Output()] = visited
				sorted = append(sorted, top.task)
				stack = stack[:len(stack)-1]
				continue
			}

			dep := canonical(top.deps[top.next])
			top.next++

			switch state[dep.Output()] {
			case visited:
			case visiting:
				return nil, cycleError(stack, dep)
			default:
				state[dep.Output()] = visiting
				stack = append(stack, &frame{task: dep, deps: slices.Collect(dep.Dependencies())})
			}
		}
	}

	return sorted, nil
}

func cycleError(stack []*frame, dep *Task) error {
	start := slices.IndexFunc(stack, func(f *frame) bool {
		return f.task.Output() == dep.Output()
	})

	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.task.Output().String())
	}
	path = append(path, dep.Output().String())

	return zerr.With(zerr.Wrap(ErrCycleDetected, "dependency cycle"), "cycle", strings.Join(path, " -> "))
}
