package formtree

import (
	"reflect"
	"strings"
	"time"
)

// classify decides the structural variant for a raw value. Sequences become
// arrays, keyed records (string-keyed maps and structs) become objects, and
// everything else is a primitive leaf. Dates and byte slices are pinned to
// primitive so they are never traversed.
func classify(v any) Kind {
	switch v.(type) {
	case nil, time.Time, *time.Time, []byte, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindPrimitive
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
		return KindPrimitive
	case reflect.Struct:
		return KindObject
	case reflect.Pointer:
		if rv.IsNil() {
			return KindPrimitive
		}
		return classify(rv.Elem().Interface())
	default:
		return KindPrimitive
	}
}

// build constructs the field node for v at path, recursing into children for
// object and array values. State flags start zeroed; carry-over from a
// previous node at the same position is the caller's concern.
func (fm *Form) build(v any, path Path) *Field {
	switch classify(v) {
	case KindArray:
		elems := sequenceOf(v)
		items := make([]*Field, len(elems))
		for i, ev := range elems {
			items[i] = fm.build(ev, path.Index(i))
		}
		return &Field{form: fm, path: path, kind: KindArray, items: items}
	case KindObject:
		rec := recordOf(v)
		fields := make(map[string]*Field, len(rec))
		for k, ev := range rec {
			fields[k] = fm.build(ev, path.Field(k))
		}
		return &Field{form: fm, path: path, kind: KindObject, fields: fields}
	default:
		return &Field{form: fm, path: path, kind: KindPrimitive, value: v}
	}
}

// sequenceOf returns the elements of an array-classified value.
func sequenceOf(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// recordOf returns the key/value pairs of an object-classified value.
func recordOf(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out[it.Key().String()] = it.Value().Interface()
		}
		return out
	case reflect.Struct:
		rt := rv.Type()
		out := make(map[string]any, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			key := resolveStructKey(sf)
			if key == "-" {
				continue
			}
			out[key] = rv.Field(i).Interface()
		}
		return out
	default:
		return nil
	}
}

// resolveStructKey resolves a struct field's external key.
// Priority: formtree:"name=..." > json tag name > field name; "-" disables.
func resolveStructKey(sf reflect.StructField) string {
	if ft := sf.Tag.Get("formtree"); ft != "" {
		for _, p := range strings.Split(ft, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// updateAt rebuilds the path from root to the addressed node, applying fn to
// that node, and shares every untouched sibling with the previous tree. A
// path that no longer exists leaves the tree unchanged.
func updateAt(root *Field, path Path, fn func(*Field) *Field) *Field {
	if root == nil {
		return nil
	}
	if len(path) == 0 {
		return fn(root)
	}
	st := path[0]
	if st.IsIndex() {
		if root.kind != KindArray || st.Index >= len(root.items) {
			return root
		}
		next := updateAt(root.items[st.Index], path[1:], fn)
		if next == root.items[st.Index] {
			return root
		}
		c := root.clone()
		c.items = append([]*Field(nil), root.items...)
		c.items[st.Index] = next
		return c
	}
	if root.kind != KindObject {
		return root
	}
	prev, ok := root.fields[st.Key]
	if !ok {
		return root
	}
	next := updateAt(prev, path[1:], fn)
	if next == prev {
		return root
	}
	c := root.clone()
	c.fields = make(map[string]*Field, len(root.fields))
	for k, ch := range root.fields {
		c.fields[k] = ch
	}
	c.fields[st.Key] = next
	return c
}

// fieldAt walks the tree to the node addressed by path, or nil.
func fieldAt(root *Field, path Path) *Field {
	cur := root
	for _, st := range path {
		if cur == nil {
			return nil
		}
		if st.IsIndex() {
			cur = cur.At(st.Index)
			continue
		}
		cur = cur.Field(st.Key)
	}
	return cur
}
