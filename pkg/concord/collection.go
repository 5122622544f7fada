package concord

// Collection is an insertion-ordered mapping from entity ID to value.
//
// It backs every entity cache in the package. Key operations are O(1)
// amortized; predicate scans are O(n), which is acceptable because
// collections are bounded by practical guild and member counts.
//
// A Collection is not safe for concurrent use on its own. Collections owned
// by a Guild or the client-wide State are guarded by the State's lock; use
// the accessor methods on those types instead of sharing a Collection across
// goroutines.
type Collection[V any] struct {
	entries map[string]V
	order   []string
}

// NewCollection creates an empty ordered collection.
func NewCollection[V any]() *Collection[V] {
	return &Collection[V]{
		entries: make(map[string]V),
	}
}

// Set inserts or replaces the value for key. Replacing an existing key keeps
// its original position in iteration order.
func (c *Collection[V]) Set(key string, value V) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = value
}

// Get returns the value for key.
func (c *Collection[V]) Get(key string) (V, bool) {
	value, ok := c.entries[key]

	return value, ok
}

// Has reports whether key is present.
func (c *Collection[V]) Has(key string) bool {
	_, ok := c.entries[key]

	return ok
}

// Delete removes key and reports whether it was present.
func (c *Collection[V]) Delete(key string) bool {
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	for i, existing := range c.order {
		if existing == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	return true
}

// Len returns the number of entries.
func (c *Collection[V]) Len() int {
	return len(c.entries)
}

// Keys returns the keys in insertion order.
func (c *Collection[V]) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)

	return keys
}

// Values returns the values in insertion order.
func (c *Collection[V]) Values() []V {
	values := make([]V, 0, len(c.order))
	for _, key := range c.order {
		values = append(values, c.entries[key])
	}

	return values
}

// First returns the first value in insertion order satisfying match.
func (c *Collection[V]) First(match func(V) bool) (V, bool) {
	for _, key := range c.order {
		if value := c.entries[key]; match(value) {
			return value, true
		}
	}

	var zero V

	return zero, false
}

// Exists reports whether any value satisfies match. It scans in insertion
// order and stops at the first hit; an empty collection always reports false.
func (c *Collection[V]) Exists(match func(V) bool) bool {
	_, ok := c.First(match)

	return ok
}
