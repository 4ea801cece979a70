package formtree

import (
	"strconv"
	"strings"
)

// Step is one segment of a Path: an object key or an array index.
// Index is negative for key steps.
type Step struct {
	Key   string
	Index int
}

// KeyStep builds an object-key path segment.
func KeyStep(name string) Step { return Step{Key: name, Index: -1} }

// IndexStep builds an array-index path segment.
func IndexStep(i int) Step { return Step{Index: i} }

// IsIndex reports whether the step addresses an array element.
func (s Step) IsIndex() bool { return s.Index >= 0 }

// Path is the ordered sequence of keys and indices from the tree root.
// The zero value addresses the root.
type Path []Step

// Field returns a new Path extended by an object key. The receiver is
// never mutated so derived paths stay chain-safe.
func (p Path) Field(name string) Path {
	return append(append(Path{}, p...), KeyStep(name))
}

// Index returns a new Path extended by an array index.
func (p Path) Index(i int) Path {
	return append(append(Path{}, p...), IndexStep(i))
}

// Parent returns the path without its last step; the root returns itself.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return append(Path{}, p[:len(p)-1]...)
}

// Pointer renders the path as a JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex() {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

func (p Path) String() string { return p.Pointer() }
