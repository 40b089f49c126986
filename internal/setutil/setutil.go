// Package setutil provides small generic map/slice helpers; within this
// module only graphutil's Tree.Ancestors uses one (Reverse). Adapted from the teacher's internal/funcutil, renamed to
// reflect that this rewrite's dominant use is set/worklist bookkeeping
// rather than general function-value utilities.
package setutil

import "golang.org/x/exp/constraints"

// Merge merges b into a: keys only in b are copied as-is; keys in both
// are combined with both(a[x], b[x]).
//
// @mutates a
func Merge[T comparable, S any](a map[T]S, b map[T]S, both func(x, y S) S) {
	for k, vb := range b {
		if va, ok := a[k]; ok {
			a[k] = both(va, vb)
		} else {
			a[k] = vb
		}
	}
}

// Union returns the union of the two map-represented sets, mutating a.
//
// @mutates a
func Union[T comparable](a map[T]bool, b map[T]bool) map[T]bool {
	Merge(a, b, func(x, y bool) bool { return x || y })
	return a
}

// Map returns a new slice containing f applied to every element of a.
func Map[T, S any](a []T, f func(T) S) []S {
	out := make([]S, len(a))
	for i, x := range a {
		out[i] = f(x)
	}
	return out
}

// SortedKeys returns the keys of m sorted by less.
func SortedKeys[T comparable, S any](m map[T]S, less func(a, b T) bool) []T {
	keys := make([]T, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	insertionSort(keys, less)
	return keys
}

func insertionSort[T any](xs []T, less func(a, b T) bool) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && less(xs[j], xs[j-1]); j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// Reverse reverses a in place, used by graphutil's Tree.Ancestors to
// return ancestors root-first.
func Reverse[T any](a []T) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

// SumWidths is a small numeric helper kept in the same generic style as
// the teacher's funcutil: it returns the sum of xs.
func SumWidths[T constraints.Integer](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}
