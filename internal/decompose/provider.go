// Package decompose splits a task title into an ordered list of concrete
// step strings, each of which becomes a subtask. An external language-model
// provider does the splitting when reachable; a deterministic local heuristic
// covers the rest.
package decompose

import "context"

// Provider turns a task title into ordered step strings. An empty slice or an
// error both mean the caller should fall back to the local heuristic.
type Provider interface {
	Decompose(ctx context.Context, title string) ([]string, error)
}
