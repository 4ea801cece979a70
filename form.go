package formtree

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Options bundles form construction options.
type Options struct {
	// OnSubmit is invoked exactly once per successful submit attempt with the
	// extracted plain value. Its error is returned to the Submit caller
	// unchanged.
	OnSubmit func(ctx context.Context, value any) error
	// Rules is the root of the partial validation tree. May be nil.
	Rules *Rule
}

// Form owns the committed field tree. The tree is an immutable snapshot;
// every mutation computes a replacement from the latest committed state and
// lands it through one single-writer cell, so results arriving from
// concurrently resolving validators are serialized and never act on a stale
// captured copy.
type Form struct {
	id       string
	rules    *Rule
	onSubmit func(ctx context.Context, value any) error

	mu         sync.Mutex
	root       *Field
	submitting bool
	subs       map[int]func(*Field)
	subSeq     int
}

// New creates a form from an initial value. The value may be canonical
// (map[string]any, []any, primitives) or a typed struct/slice, which is
// traversed reflectively; extraction always returns the canonical form.
func New(initial any, opt Options) *Form {
	fm := &Form{
		id:       uuid.New().String(),
		rules:    opt.Rules,
		onSubmit: opt.OnSubmit,
		subs:     make(map[int]func(*Field)),
	}
	fm.root = fm.build(initial, nil)
	return fm
}

// ID returns the form instance identifier, usable as a host render key.
func (fm *Form) ID() string { return fm.id }

// Root returns the latest committed field tree.
func (fm *Form) Root() *Field {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.root
}

// At returns the field at path in the latest committed tree, or nil.
func (fm *Form) At(path Path) *Field { return fieldAt(fm.Root(), path) }

// Submitting reports whether a submit cycle is active.
func (fm *Form) Submitting() bool {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.submitting
}

// Subscribe registers fn to run after every committed state replacement with
// the new root. The returned cancel removes the subscription.
func (fm *Form) Subscribe(fn func(root *Field)) (cancel func()) {
	fm.mu.Lock()
	fm.subSeq++
	id := fm.subSeq
	fm.subs[id] = fn
	fm.mu.Unlock()
	return func() {
		fm.mu.Lock()
		delete(fm.subs, id)
		fm.mu.Unlock()
	}
}

// Reset rebuilds the whole tree from a fresh value, dropping all field state.
func (fm *Form) Reset(v any) {
	fm.commit(func(*Field) *Field { return fm.build(v, nil) })
}

// commit is the single state-update channel: update reads the latest
// committed root and returns its replacement. Subscribers run outside the
// lock with the new root.
func (fm *Form) commit(update func(*Field) *Field) *Field {
	fm.mu.Lock()
	next := update(fm.root)
	fm.root = next
	subs := make([]func(*Field), 0, len(fm.subs))
	for _, s := range fm.subs {
		subs = append(subs, s)
	}
	fm.mu.Unlock()
	for _, s := range subs {
		s(next)
	}
	return next
}

// setValue replaces the node at path with one built from v, carrying over
// touched/disabled and the previous error, then runs the position's on-change
// validator. A deferred validator leaves validating=true behind and lands its
// result through the stale-value guard.
func (fm *Form) setValue(ctx context.Context, path Path, v any) {
	r := fm.rules.at(path)
	deferred := r != nil && r.OnChange != nil && r.Defer

	next := fm.commit(func(root *Field) *Field {
		return updateAt(root, path, func(old *Field) *Field {
			n := fm.build(v, path)
			n.touched = old.touched
			n.disabled = old.disabled
			n.err = old.err
			n.validating = deferred
			return n
		})
	})

	if r == nil || r.OnChange == nil {
		return
	}
	target := fieldAt(next, path)
	if target == nil {
		// position vanished before the write landed; nothing to validate
		return
	}
	// Validators see the canonical plain value, which is also what the stale
	// guard compares against later.
	plain := ExtractValue(target)
	if !deferred {
		iss, _ := checkNode(ctx, r, path, plain, false)
		fm.commitResult(path, plain, iss)
		return
	}
	go func() {
		iss, _ := checkNode(ctx, r, path, plain, false)
		fm.commitResult(path, plain, iss)
	}()
}

// commitResult lands a validation outcome for the value it was computed
// against. Results for a value the field no longer holds are discarded:
// last-write-wins is decided by value relevance, not completion order.
func (fm *Form) commitResult(path Path, validated any, iss *Issue) {
	fm.commit(func(root *Field) *Field {
		return updateAt(root, path, func(cur *Field) *Field {
			if !reflect.DeepEqual(ExtractValue(cur), validated) {
				return cur
			}
			c := cur.clone()
			c.err = iss
			c.validating = false
			return c
		})
	})
}

// mergeOutcome folds a submit validation pass into the latest committed tree.
// A node adopts the pass's error only while it still holds the value the
// validator saw; positions replaced mid-cycle keep their own state, and a
// deferred result that resolved during the cycle keeps its cleared
// validating flag.
func mergeOutcome(cur, validated *Field) *Field {
	if cur == nil || validated == nil || cur.kind != validated.kind {
		return cur
	}
	c := cur.clone()
	switch cur.kind {
	case KindObject:
		c.fields = make(map[string]*Field, len(cur.fields))
		for k, ch := range cur.fields {
			c.fields[k] = mergeOutcome(ch, validated.fields[k])
		}
	case KindArray:
		c.items = make([]*Field, len(cur.items))
		for i, ch := range cur.items {
			if i < len(validated.items) {
				c.items[i] = mergeOutcome(ch, validated.items[i])
			} else {
				c.items[i] = ch
			}
		}
	}
	if reflect.DeepEqual(ExtractValue(cur), ExtractValue(validated)) {
		c.err = validated.err
	}
	return c
}

func (fm *Form) touch(path Path) {
	fm.commit(func(root *Field) *Field {
		return updateAt(root, path, func(old *Field) *Field {
			return old.WithTouched(true)
		})
	})
}

// push appends one item built at the next index; existing items are shared.
func (fm *Form) push(path Path, v any) {
	fm.commit(func(root *Field) *Field {
		return updateAt(root, path, func(old *Field) *Field {
			if old.kind != KindArray {
				return old
			}
			c := old.clone()
			c.items = append(append([]*Field(nil), old.items...), fm.build(v, path.Index(len(old.items))))
			c.touched = true
			return c
		})
	})
}

// remove deletes one item and re-derives every later item at its shifted
// index so paths stay correct for held bindings.
func (fm *Form) remove(path Path, idx int) {
	fm.commit(func(root *Field) *Field {
		return updateAt(root, path, func(old *Field) *Field {
			if old.kind != KindArray || idx < 0 || idx >= len(old.items) {
				return old
			}
			c := old.clone()
			items := make([]*Field, 0, len(old.items)-1)
			items = append(items, old.items[:idx]...)
			for i, ch := range old.items[idx+1:] {
				items = append(items, rebase(ch, path.Index(idx+i)))
			}
			c.items = items
			c.touched = true
			return c
		})
	})
}

// Submit runs one full submit cycle: touch and disable the whole tree, run
// on-submit validation across it, and invoke the submit callback only when
// the validated tree carries no error. Validation outcomes are merged into
// the latest committed tree, so edits and deferred results landing while
// validators run are kept. Re-entrant calls during an active cycle are
// no-ops. Validation failure returns the collected Issues; a
// callback error propagates unchanged. Either way the tree is re-enabled and
// submitting cleared before returning.
//
// There is no validator timeout: a validator that never returns blocks the
// cycle indefinitely. ctx is passed through to every validator and to the
// callback, so deadlines belong to the caller.
func (fm *Form) Submit(ctx context.Context) error {
	fm.mu.Lock()
	if fm.submitting {
		fm.mu.Unlock()
		return nil
	}
	fm.submitting = true
	fm.mu.Unlock()

	defer func() {
		fm.commit(func(root *Field) *Field {
			return MapDeep(root, func(f *Field) *Field {
				f.disabled = false
				return f
			})
		})
		fm.mu.Lock()
		fm.submitting = false
		fm.mu.Unlock()
	}()

	snapshot := fm.commit(func(root *Field) *Field {
		return MapDeep(root, func(f *Field) *Field {
			f.touched = true
			f.disabled = true
			return f
		})
	})

	validated := validateTree(ctx, snapshot, fm.rules)
	merged := fm.commit(func(root *Field) *Field { return mergeOutcome(root, validated) })

	if AnyError(merged) {
		return CollectIssues(merged)
	}
	if fm.onSubmit != nil {
		if err := fm.onSubmit(ctx, ExtractValue(merged)); err != nil {
			return err
		}
	}
	fm.commit(func(root *Field) *Field {
		return MapDeep(root, func(f *Field) *Field {
			f.touched = false
			return f
		})
	})
	return nil
}
