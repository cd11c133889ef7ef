package engine

import "errors"

// ValidationError marks caller mistakes (bad date, missing title, illegal
// hierarchy). Surfaced as 400 by the API layer, never retried.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

// NotFoundError covers both genuinely missing entities and ownership
// mismatches; callers cannot distinguish the two.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string { return e.Resource + " not found" }

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
