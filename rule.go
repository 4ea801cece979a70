package formtree

import "context"

// Validator checks a plain value (a primitive, []any, or map[string]any,
// never a Field) and reports a validation error, or nil when the value is
// valid.
// Validators may block; during submit, independent branches run concurrently.
type Validator func(ctx context.Context, v any) error

// Rule is one node of the partial validation tree that parallels the value
// tree. A position without a rule is simply not validated.
type Rule struct {
	// OnChange runs on every value mutation at this position, and first
	// during submit. A non-nil result wins over OnSubmit.
	OnChange Validator
	// OnSubmit runs during a submit cycle as a fallback when OnChange passed
	// (or is absent).
	OnSubmit Validator
	// Defer makes Set run OnChange on a background goroutine, reporting
	// validating=true on the field until the result lands. Results for values
	// the field no longer holds are discarded.
	Defer bool

	// Fields maps object keys to their child rules.
	Fields map[string]*Rule
	// Item is the rule applied to every element of an array (arrays are not
	// tuple-typed; one shape, one rule).
	Item *Rule
}

// at resolves the rule node for a position, or nil when the tree has no rule
// on that path.
func (r *Rule) at(path Path) *Rule {
	cur := r
	for _, st := range path {
		if cur == nil {
			return nil
		}
		if st.IsIndex() {
			cur = cur.Item
			continue
		}
		cur = cur.Fields[st.Key]
	}
	return cur
}
