package formtree

import (
	"context"
	"sync"

	"github.com/reoring/formtree/i18n"
)

// runValidator invokes fn with the plain value, converting a panic into the
// fixed sentinel issue so a crashing validator never escapes the engine.
func runValidator(ctx context.Context, fn Validator, path Path, value any) (iss *Issue) {
	defer func() {
		if r := recover(); r != nil {
			iss = sentinelIssue(path)
		}
	}()
	return issueFromErr(path.Pointer(), fn(ctx, value))
}

func sentinelIssue(path Path) *Issue {
	return &Issue{
		Path:    path.Pointer(),
		Code:    CodeValidationFailed,
		Message: i18n.T(CodeValidationFailed, nil),
	}
}

// checkNode evaluates a node's own validators against its plain value.
// OnChange runs first; a non-nil result is adopted and OnSubmit is skipped
// (on-submit is a fallback level, not cumulative). The second return reports
// whether any validator ran; when none did, the caller must leave the node's
// error untouched.
func checkNode(ctx context.Context, r *Rule, path Path, value any, submit bool) (*Issue, bool) {
	if r == nil {
		return nil, false
	}
	ran := false
	if r.OnChange != nil {
		ran = true
		if iss := runValidator(ctx, r.OnChange, path, value); iss != nil {
			return iss, true
		}
	}
	if submit && r.OnSubmit != nil {
		return runValidator(ctx, r.OnSubmit, path, value), true
	}
	return nil, ran
}

// validateTree walks the field tree in lock-step with the rule tree and
// returns a structurally identical tree with errors populated at every
// position a rule covers. Independent branches validate concurrently; the
// join completes before the merged tree is returned, so callers observe a
// fully settled result. Positions without a rule keep their previous error
// and their node identity.
func validateTree(ctx context.Context, f *Field, r *Rule) *Field {
	if f == nil || r == nil {
		return f
	}
	next := Visit(f, Visitor[*Field]{
		Primitive: func(f *Field) *Field { return f.clone() },
		Object: func(f *Field) *Field {
			c := f.clone()
			c.fields = make(map[string]*Field, len(f.fields))
			var wg sync.WaitGroup
			var mu sync.Mutex
			for k, ch := range f.fields {
				cr := r.Fields[k]
				if cr == nil {
					c.fields[k] = ch
					continue
				}
				wg.Add(1)
				go func(k string, ch *Field, cr *Rule) {
					defer wg.Done()
					res := validateTree(ctx, ch, cr)
					mu.Lock()
					c.fields[k] = res
					mu.Unlock()
				}(k, ch, cr)
			}
			wg.Wait()
			return c
		},
		Array: func(f *Field) *Field {
			c := f.clone()
			c.items = make([]*Field, len(f.items))
			if r.Item == nil {
				copy(c.items, f.items)
				return c
			}
			var wg sync.WaitGroup
			for i, ch := range f.items {
				wg.Add(1)
				go func(i int, ch *Field) {
					defer wg.Done()
					c.items[i] = validateTree(ctx, ch, r.Item)
				}(i, ch)
			}
			wg.Wait()
			return c
		},
	})
	// The node's own check always sees the plain value, never the wrapper.
	if iss, ran := checkNode(ctx, r, f.path, ExtractValue(f), true); ran {
		next.err = iss
	}
	return next
}
