package decompose

import (
	"context"
	"fmt"
	"strings"
)

// Fallback is the deterministic local heuristic. It splits the title on
// commas and the connective " and ", taking up to four parts; a title with
// no separators is split by word count instead. Same title, same steps.
type Fallback struct{}

func (Fallback) Decompose(_ context.Context, title string) ([]string, error) {
	return FallbackSteps(title), nil
}

func FallbackSteps(title string) []string {
	normalized := strings.ReplaceAll(title, " and ", ",")
	var parts []string
	for _, p := range strings.Split(normalized, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) <= 1 {
		words := strings.Fields(title)
		if len(words) <= 3 {
			return []string{
				fmt.Sprintf("Prepare everything needed for '%s'", title),
				"Carry out the main work",
				"Check the result and wrap up",
			}
		}
		var steps []string
		for _, w := range words[:min(len(words), 4)] {
			steps = append(steps, fmt.Sprintf("Work on the '%s' part", w))
		}
		return steps
	}

	var steps []string
	for _, p := range parts[:min(len(parts), 4)] {
		steps = append(steps, p)
	}
	return steps
}
