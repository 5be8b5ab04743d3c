// Package fn provides small generic helpers over slices.
package fn

// Map applies f to each element.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = f(v)
	}
	return out
}

// Filter returns elements where pred is true. The result never aliases items.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// FilterMap applies f and keeps results where ok is true.
func FilterMap[T, U any](items []T, f func(T) (U, bool)) []U {
	var out []U
	for _, v := range items {
		if u, ok := f(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// Any reports whether pred holds for at least one element.
func Any[T any](items []T, pred func(T) bool) bool {
	for _, v := range items {
		if pred(v) {
			return true
		}
	}
	return false
}

// All reports whether pred holds for every element. True for an empty slice.
func All[T any](items []T, pred func(T) bool) bool {
	for _, v := range items {
		if !pred(v) {
			return false
		}
	}
	return true
}

// Find returns the first element satisfying pred.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, v := range items {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// IndexBy builds a lookup map. Later duplicates overwrite earlier ones.
func IndexBy[T any, K comparable](items []T, key func(T) K) map[K]T {
	out := make(map[K]T, len(items))
	for _, v := range items {
		out[key(v)] = v
	}
	return out
}

// GroupBy groups items by a key function.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, v := range items {
		k := key(v)
		out[k] = append(out[k], v)
	}
	return out
}

// Unique returns unique elements preserving order.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	var out []T
	for _, v := range items {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// UniqueBy returns elements with unique keys, preserving order.
func UniqueBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	var out []T
	for _, v := range items {
		k := key(v)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// BestIndex returns the index of the element whose score beats every earlier
// one under better(candidate, best). Ties keep the earliest element. Elements
// whose score is not eligible are skipped; -1 means nothing was eligible.
func BestIndex[T any, S any](items []T, score func(T) (S, bool), better func(a, b S) bool) int {
	best := -1
	var bestScore S
	for i, v := range items {
		s, ok := score(v)
		if !ok {
			continue
		}
		if best == -1 || better(s, bestScore) {
			best, bestScore = i, s
		}
	}
	return best
}
