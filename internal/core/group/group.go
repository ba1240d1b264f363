// Package group provides an order-preserving group-by
package group

// Groups maps keys to items, remembering first-seen key order and source item order
type Groups[K comparable, V any] struct {
	keys  []K
	items map[K][]V
}

// By groups items by key. Keys come back in first-seen order and each
// group keeps the relative order of items. The input is not modified.
func By[K comparable, V any](items []V, key func(V) K) Groups[K, V] {
	g := Groups[K, V]{items: make(map[K][]V)}
	for _, it := range items {
		k := key(it)
		if _, seen := g.items[k]; !seen {
			g.keys = append(g.keys, k)
		}
		g.items[k] = append(g.items[k], it)
	}
	return g
}

// Keys returns the keys in first-seen order
func (g Groups[K, V]) Keys() []K { return g.keys }

// Get returns the items for k, nil when k is unknown
func (g Groups[K, V]) Get(k K) []V { return g.items[k] }

// Len is the number of distinct keys
func (g Groups[K, V]) Len() int { return len(g.keys) }
