// Package rules provides ready-made field validators for formtree rule
// trees, producing coded, translated Issues with structured Params.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// Required fails on nil and on empty strings, arrays and objects.
func Required() formtree.Validator {
	return func(ctx context.Context, v any) error {
		if v == nil {
			return issue(formtree.CodeRequired, nil)
		}
		if s, ok := v.(string); ok && s == "" {
			return issue(formtree.CodeRequired, nil)
		}
		if n, ok := lengthOf(v); ok && n == 0 {
			return issue(formtree.CodeRequired, nil)
		}
		return nil
	}
}

// NonEmpty fails on strings that are empty or whitespace only. Non-strings
// pass; use Required for presence checks on other kinds.
func NonEmpty() formtree.Validator {
	return func(ctx context.Context, v any) error {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return issue(formtree.CodeRequired, nil)
		}
		return nil
	}
}

// MinLen requires a string (in runes), array or object to have at least n
// elements. Values without a length pass.
func MinLen(n int) formtree.Validator {
	return func(ctx context.Context, v any) error {
		if s, ok := v.(string); ok {
			if utf8.RuneCountInString(s) < n {
				return issue(formtree.CodeTooShort, map[string]any{"min": n, "got": utf8.RuneCountInString(s)})
			}
			return nil
		}
		if l, ok := lengthOf(v); ok && l < n {
			return issue(formtree.CodeTooShort, map[string]any{"min": n, "got": l})
		}
		return nil
	}
}

// MaxLen requires a string (in runes), array or object to have at most n
// elements. Values without a length pass.
func MaxLen(n int) formtree.Validator {
	return func(ctx context.Context, v any) error {
		if s, ok := v.(string); ok {
			if utf8.RuneCountInString(s) > n {
				return issue(formtree.CodeTooLong, map[string]any{"max": n, "got": utf8.RuneCountInString(s)})
			}
			return nil
		}
		if l, ok := lengthOf(v); ok && l > n {
			return issue(formtree.CodeTooLong, map[string]any{"max": n, "got": l})
		}
		return nil
	}
}

// Min requires a numeric value to be at least x. Non-numbers pass.
func Min(x float64) formtree.Validator {
	return func(ctx context.Context, v any) error {
		if f, ok := numberOf(v); ok && f < x {
			return issue(formtree.CodeTooSmall, map[string]any{"min": x, "got": f})
		}
		return nil
	}
}

// Max requires a numeric value to be at most x. Non-numbers pass.
func Max(x float64) formtree.Validator {
	return func(ctx context.Context, v any) error {
		if f, ok := numberOf(v); ok && f > x {
			return issue(formtree.CodeTooBig, map[string]any{"max": x, "got": f})
		}
		return nil
	}
}

// Pattern requires a string value to match expr. Panics when expr does not
// compile, so a broken rule tree fails loudly at construction. Non-strings
// pass.
func Pattern(expr string) formtree.Validator {
	re := regexp.MustCompile(expr)
	return func(ctx context.Context, v any) error {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		if !re.MatchString(s) {
			return issue(formtree.CodePattern, map[string]any{"pattern": expr})
		}
		return nil
	}
}

// OneOf requires the value to deep-equal one of the allowed values.
func OneOf(allowed ...any) formtree.Validator {
	return func(ctx context.Context, v any) error {
		for _, a := range allowed {
			if reflect.DeepEqual(v, a) {
				return nil
			}
		}
		return issue(formtree.CodeInvalidEnum, map[string]any{"got": fmt.Sprint(v)})
	}
}

// All runs validators in order and returns the first error.
func All(vs ...formtree.Validator) formtree.Validator {
	return func(ctx context.Context, v any) error {
		for _, fn := range vs {
			if fn == nil {
				continue
			}
			if err := fn(ctx, v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Any passes when at least one validator passes; otherwise it returns the
// first error.
func Any(vs ...formtree.Validator) formtree.Validator {
	return func(ctx context.Context, v any) error {
		var first error
		for _, fn := range vs {
			if fn == nil {
				continue
			}
			err := fn(ctx, v)
			if err == nil {
				return nil
			}
			if first == nil {
				first = err
			}
		}
		return first
	}
}

// ------- helpers -------

func issue(code string, params map[string]any) error {
	return &formtree.Issue{Code: code, Message: i18n.T(code, nil), Params: params}
}

// lengthOf returns the element count of arrays and keyed records.
func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// numberOf widens any numeric representation (including json.Number-style
// fmt.Stringer types carrying a Float64 method) to float64.
func numberOf(v any) (float64, bool) {
	if n, ok := v.(interface{ Float64() (float64, error) }); ok {
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
