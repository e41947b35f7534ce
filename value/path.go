package value

import "strings"

// Dot-path operations treat a Value as a tree of nested Maps. Mutating
// operations never alias into the existing tree: they rebuild the container
// chain from the leaf back to the root and return a fresh root, so callers
// can hold the old value without seeing it change underneath them.

// GetPath walks path ("a.b.c") through nested Maps and returns the value at
// the leaf. It returns def the moment a segment is missing or an
// intermediate node is not a Map.
func GetPath(v Value, path string, def Value) Value {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(Map)
		if !ok {
			return def
		}
		next, present := m[seg]
		if !present {
			return def
		}
		cur = next
	}
	return cur
}

// SetPath returns a new root with leaf stored at path. Intermediate Maps are
// created as needed; existing non-Map intermediates are replaced by fresh
// Maps, so a scalar sitting in the middle of the path is lost. Callers that
// care about shape must validate before writing.
func SetPath(v Value, path string, leaf Value) Value {
	return setPath(v, strings.Split(path, "."), leaf)
}

func setPath(v Value, segs []string, leaf Value) Value {
	if len(segs) == 0 {
		return leaf
	}

	m, _ := v.(Map)
	out := make(Map, len(m)+1)
	for k, elem := range m {
		out[k] = elem
	}
	out[segs[0]] = setPath(m[segs[0]], segs[1:], leaf)
	return out
}

// RemovePath returns a new root with the leaf at path removed. When the path
// does not fully resolve through Maps, it returns the original value and
// false.
func RemovePath(v Value, path string) (Value, bool) {
	return removePath(v, strings.Split(path, "."))
}

func removePath(v Value, segs []string) (Value, bool) {
	m, ok := v.(Map)
	if !ok {
		return v, false
	}

	if len(segs) == 1 {
		if _, present := m[segs[0]]; !present {
			return v, false
		}
		out := make(Map, len(m)-1)
		for k, elem := range m {
			if k != segs[0] {
				out[k] = elem
			}
		}
		return out, true
	}

	child, present := m[segs[0]]
	if !present {
		return v, false
	}
	newChild, removed := removePath(child, segs[1:])
	if !removed {
		return v, false
	}

	out := make(Map, len(m))
	for k, elem := range m {
		out[k] = elem
	}
	out[segs[0]] = newChild
	return out, true
}
