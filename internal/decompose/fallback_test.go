package decompose

import (
	"reflect"
	"testing"
)

func TestFallbackStepsShortTitle(t *testing.T) {
	// Three words or fewer without separators gets the fixed template.
	got := FallbackSteps("buy milk")
	want := []string{
		"Prepare everything needed for 'buy milk'",
		"Carry out the main work",
		"Check the result and wrap up",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
}

func TestFallbackStepsSplitsOnSeparators(t *testing.T) {
	got := FallbackSteps("clean the kitchen and wash the dishes, take out trash")
	want := []string{"clean the kitchen", "wash the dishes", "take out trash"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
}

func TestFallbackStepsWordSplit(t *testing.T) {
	// A long title without separators produces one step per leading word,
	// capped at four.
	got := FallbackSteps("prepare the quarterly report for management review")
	want := []string{
		"Work on the 'prepare' part",
		"Work on the 'the' part",
		"Work on the 'quarterly' part",
		"Work on the 'report' part",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
}

func TestFallbackStepsCapsParts(t *testing.T) {
	got := FallbackSteps("a thing, b thing, c thing, d thing, e thing")
	if len(got) != 4 {
		t.Fatalf("got %d steps, want 4: %v", len(got), got)
	}
}

func TestFallbackStepsDeterministic(t *testing.T) {
	first := FallbackSteps("plan the trip and book hotels")
	for i := 0; i < 5; i++ {
		if again := FallbackSteps("plan the trip and book hotels"); !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}
