package model

import "errors"

// ErrNotFound is returned when a lookup has no match.
var ErrNotFound = errors.New("not found")

// FirstMatching returns the first element of items satisfying pred.
func FirstMatching[T any](items []T, pred func(T) bool) (T, error) {
	for _, it := range items {
		if pred(it) {
			return it, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}
