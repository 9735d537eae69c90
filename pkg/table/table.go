package table

// PrefixTable is a byte trie mapping keys to values. Besides exact lookups,
// it finds every stored key that is a prefix of a given input.
type PrefixTable[T any] struct {
	root node[T]
	size int
}

type node[T any] struct {
	children map[byte]*node[T]
	value    T
	// terminal marks a node where a complete key ends.
	terminal bool
}

func New[T any]() *PrefixTable[T] {
	return &PrefixTable[T]{}
}

// Insert associates v with key, replacing any previous value.
func (t *PrefixTable[T]) Insert(key []byte, v T) {
	n := &t.root
	for _, b := range key {
		if n.children == nil {
			n.children = make(map[byte]*node[T])
		}
		child, ok := n.children[b]
		if !ok {
			child = &node[T]{}
			n.children[b] = child
		}
		n = child
	}
	if !n.terminal {
		t.size++
	}
	n.terminal = true
	n.value = v
}

// Get returns the value stored for exactly key.
func (t *PrefixTable[T]) Get(key []byte) (T, bool) {
	n := t.find(key)
	if n == nil || !n.terminal {
		var zero T
		return zero, false
	}
	return n.value, true
}

func (t *PrefixTable[T]) find(key []byte) *node[T] {
	n := &t.root
	for _, b := range key {
		child, ok := n.children[b]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

// Walk calls onMatch for every stored key that is a prefix of data,
// shortest first, until onMatch returns true.
//
// For example, if the table contains "apple", "applet" and "apricot",
// Walk("appletie") visits "apple" then "applet", while Walk("application")
// visits nothing.
func (t *PrefixTable[T]) Walk(data []byte, onMatch func(key []byte, v T) bool) {
	n := &t.root
	for i, b := range data {
		child, ok := n.children[b]
		if !ok {
			return
		}
		n = child

		if n.terminal && onMatch(data[:i+1], n.value) {
			return
		}
	}
}

// Longest returns the value of the longest stored key prefixing data, and
// the length of that key.
func (t *PrefixTable[T]) Longest(data []byte) (T, int, bool) {
	var (
		best  T
		n     int
		found bool
	)
	t.Walk(data, func(key []byte, v T) bool {
		best, n, found = v, len(key), true
		return false
	})
	return best, n, found
}

// Size returns the number of keys in the table.
func (t *PrefixTable[T]) Size() int {
	return t.size
}
