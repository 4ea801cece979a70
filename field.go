package formtree

import (
	"context"
	"sort"
)

// Kind discriminates the three structural variants of a Field.
type Kind int

const (
	KindPrimitive Kind = iota // Leaf value (including null and dates).
	KindObject                // Keyed record with one child field per key.
	KindArray                 // Ordered sequence of item fields.
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "primitive"
	}
}

// Field wraps one position of the underlying value tree with the state the
// host UI renders: touched, error, disabled, validating. Fields are immutable
// snapshots; mutators replace the committed tree on the owning Form, so a
// held Field keeps addressing its position by path rather than by identity.
type Field struct {
	form *Form
	path Path
	kind Kind

	value      any // plain value; leaf kinds only, branches derive from children
	touched    bool
	disabled   bool
	validating bool
	err        *Issue

	fields map[string]*Field // KindObject children
	items  []*Field          // KindArray children
}

// Kind returns the structural variant of the field.
func (f *Field) Kind() Kind { return f.kind }

// Path returns the field's position from the tree root.
func (f *Field) Path() Path { return f.path }

// Touched reports whether the user has interacted with or submitted through
// this field.
func (f *Field) Touched() bool { return f.touched }

// Disabled reports whether the field is locked, which happens for the whole
// tree during an active submit cycle.
func (f *Field) Disabled() bool { return f.disabled }

// Validating reports whether a deferred on-change validator for this field is
// still pending.
func (f *Field) Validating() bool { return f.validating }

// Err returns the field's own validation error, or nil when valid.
func (f *Field) Err() *Issue { return f.err }

// Value returns the plain underlying value at this position, with all field
// wrapping stripped.
func (f *Field) Value() any { return ExtractValue(f) }

// Field returns the named child of an object field, or nil.
func (f *Field) Field(name string) *Field {
	if f == nil || f.kind != KindObject {
		return nil
	}
	return f.fields[name]
}

// Keys returns the object field's child keys in sorted order.
func (f *Field) Keys() []string {
	if f == nil || f.kind != KindObject {
		return nil
	}
	ks := make([]string, 0, len(f.fields))
	for k := range f.fields {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// At returns the i-th item of an array field, or nil when out of range.
func (f *Field) At(i int) *Field {
	if f == nil || f.kind != KindArray || i < 0 || i >= len(f.items) {
		return nil
	}
	return f.items[i]
}

// Items returns the array field's item fields in order.
func (f *Field) Items() []*Field {
	if f == nil || f.kind != KindArray {
		return nil
	}
	return append([]*Field(nil), f.items...)
}

// Len returns the number of items of an array field.
func (f *Field) Len() int {
	if f == nil || f.kind != KindArray {
		return 0
	}
	return len(f.items)
}

// ---- derivation helpers ----
//
// Fields are immutable; With* return a shallow copy with one state flag
// changed. Children are shared, so use MapDeep to derive a whole subtree.

func (f *Field) clone() *Field {
	c := *f
	return &c
}

// WithTouched returns a copy of the field with touched set to v.
func (f *Field) WithTouched(v bool) *Field {
	c := f.clone()
	c.touched = v
	return c
}

// WithDisabled returns a copy of the field with disabled set to v.
func (f *Field) WithDisabled(v bool) *Field {
	c := f.clone()
	c.disabled = v
	return c
}

// WithValidating returns a copy of the field with validating set to v.
func (f *Field) WithValidating(v bool) *Field {
	c := f.clone()
	c.validating = v
	return c
}

// WithErr returns a copy of the field carrying the given error (nil clears).
func (f *Field) WithErr(err *Issue) *Field {
	c := f.clone()
	c.err = err
	return c
}

// ---- mutators ----
//
// Mutators write through the owning Form's committed state by path. A Field
// detached from a Form (or whose position no longer exists) mutates nothing.

// Set replaces the value at this position and runs the position's on-change
// validator, if any. Assigning an object value to a primitive field holding
// null grows the position into an object field in place.
func (f *Field) Set(ctx context.Context, v any) {
	if f == nil || f.form == nil {
		return
	}
	f.form.setValue(ctx, f.path, v)
}

// Touch marks the field as interacted with.
func (f *Field) Touch() {
	if f == nil || f.form == nil {
		return
	}
	f.form.touch(f.path)
}

// Push appends one element to an array field, building its item field from v,
// and marks the array touched.
func (f *Field) Push(v any) {
	if f == nil || f.form == nil || f.kind != KindArray {
		return
	}
	f.form.push(f.path, v)
}

// Remove deletes the i-th element of an array field, re-deriving every later
// item so its path matches its new index, and marks the array touched.
func (f *Field) Remove(i int) {
	if f == nil || f.form == nil || f.kind != KindArray {
		return
	}
	f.form.remove(f.path, i)
}
