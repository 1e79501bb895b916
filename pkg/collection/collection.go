// Package collection provides generic helpers for slices.
//
//	names := collection.Map(products, func(p models.Product) string { return p.Name })
//	active := collection.Filter(products, func(p models.Product) bool { return p.IsActive })
//	units := collection.Sum(order.Items, func(i models.OrderItem) int { return i.Quantity })
package collection

// Number is any type Sum can add.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true. The result is
// never nil.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := []T{}
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Unique returns s with duplicates removed, keeping first occurrences.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := []T{}
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Sum adds the values extracted by fn.
func Sum[T any, N Number](s []T, fn func(T) N) N {
	var total N
	for _, v := range s {
		total += fn(v)
	}
	return total
}

// KeyBy indexes s by the key fn extracts. Later elements win.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}
