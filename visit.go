package formtree

// Visitor receives exactly one callback per structural kind. Visit is the
// single place that dispatches on a field's kind; every traversal in this
// package is built on it.
type Visitor[T any] struct {
	Primitive func(f *Field) T
	Object    func(f *Field) T
	Array     func(f *Field) T
}

// Visit dispatches on f's kind and invokes the matching callback.
func Visit[T any](f *Field, v Visitor[T]) T {
	switch f.kind {
	case KindObject:
		return v.Object(f)
	case KindArray:
		return v.Array(f)
	default:
		return v.Primitive(f)
	}
}

// ExtractValue strips field wrapping recursively, returning the plain value
// tree: map[string]any for objects, []any for arrays, the held value for
// primitives.
func ExtractValue(f *Field) any {
	if f == nil {
		return nil
	}
	return Visit(f, Visitor[any]{
		Primitive: func(f *Field) any { return f.value },
		Object: func(f *Field) any {
			out := make(map[string]any, len(f.fields))
			for k, c := range f.fields {
				out[k] = ExtractValue(c)
			}
			return out
		},
		Array: func(f *Field) any {
			out := make([]any, len(f.items))
			for i, c := range f.items {
				out[i] = ExtractValue(c)
			}
			return out
		},
	})
}

// MapDeep applies transform to every node of the tree, children first, and
// returns the same-shaped replacement tree. The transform receives a copy it
// owns and adjusts state flags only (directly or via the With* helpers);
// structure and values are preserved by MapDeep itself.
func MapDeep(f *Field, transform func(*Field) *Field) *Field {
	if f == nil {
		return nil
	}
	return Visit(f, Visitor[*Field]{
		Primitive: func(f *Field) *Field { return transform(f.clone()) },
		Object: func(f *Field) *Field {
			c := f.clone()
			c.fields = make(map[string]*Field, len(f.fields))
			for k, ch := range f.fields {
				c.fields[k] = MapDeep(ch, transform)
			}
			return transform(c)
		},
		Array: func(f *Field) *Field {
			c := f.clone()
			c.items = make([]*Field, len(f.items))
			for i, ch := range f.items {
				c.items[i] = MapDeep(ch, transform)
			}
			return transform(c)
		},
	})
}

// AnyError reports whether the field or any descendant carries an error.
func AnyError(f *Field) bool {
	if f == nil {
		return false
	}
	if f.err != nil {
		return true
	}
	return Visit(f, Visitor[bool]{
		Primitive: func(f *Field) bool { return false },
		Object: func(f *Field) bool {
			for _, c := range f.fields {
				if AnyError(c) {
					return true
				}
			}
			return false
		},
		Array: func(f *Field) bool {
			for _, c := range f.items {
				if AnyError(c) {
					return true
				}
			}
			return false
		},
	})
}

// CollectIssues gathers every error in the tree into Issues, parents before
// children, object keys in sorted order for deterministic output.
func CollectIssues(f *Field) Issues {
	var out Issues
	collectIssues(f, &out)
	return out
}

func collectIssues(f *Field, out *Issues) {
	if f == nil {
		return
	}
	if f.err != nil {
		*out = AppendIssues(*out, *f.err)
	}
	Visit(f, Visitor[struct{}]{
		Primitive: func(f *Field) struct{} { return struct{}{} },
		Object: func(f *Field) struct{} {
			for _, k := range f.Keys() {
				collectIssues(f.fields[k], out)
			}
			return struct{}{}
		},
		Array: func(f *Field) struct{} {
			for _, c := range f.items {
				collectIssues(c, out)
			}
			return struct{}{}
		},
	})
}

// rebase re-derives the subtree at a new path, preserving all field state.
// Carried errors are re-pointed so err.Path keeps matching the node's
// position. Used when array removal shifts later items to smaller indices.
func rebase(f *Field, path Path) *Field {
	if f == nil {
		return nil
	}
	c := f.clone()
	c.path = path
	if c.err != nil {
		e := *c.err
		e.Path = path.Pointer()
		c.err = &e
	}
	return Visit(c, Visitor[*Field]{
		Primitive: func(c *Field) *Field { return c },
		Object: func(c *Field) *Field {
			c.fields = make(map[string]*Field, len(f.fields))
			for k, ch := range f.fields {
				c.fields[k] = rebase(ch, path.Field(k))
			}
			return c
		},
		Array: func(c *Field) *Field {
			c.items = make([]*Field, len(f.items))
			for i, ch := range f.items {
				c.items[i] = rebase(ch, path.Index(i))
			}
			return c
		},
	})
}
