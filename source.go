package formtree

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// JSONBytes decodes a JSON document into the canonical value tree used to
// seed a form: map[string]any for objects, []any for arrays, json.Number for
// numbers (no float64 precision loss).
func JSONBytes(data []byte) (any, error) {
	return JSONReader(bytes.NewReader(data))
}

// JSONReader decodes a JSON document from r into the canonical value tree.
func JSONReader(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("formtree: decode json: %w", err)
	}
	return v, nil
}

// YAMLBytes decodes a YAML document into the canonical value tree. Useful for
// fixture- or config-driven initial form values.
func YAMLBytes(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("formtree: decode yaml: %w", err)
	}
	return v, nil
}

// ValueJSON encodes an extracted plain value tree as JSON, e.g. for
// snapshotting a submit payload.
func ValueJSON(v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("formtree: encode json: %w", err)
	}
	return b, nil
}
