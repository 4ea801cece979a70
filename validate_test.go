package formtree_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	formtree "github.com/reoring/formtree"
	"github.com/reoring/formtree/rules"
)

func TestValidate_OnChangeWinsOverOnSubmit(t *testing.T) {
	ctx := context.Background()
	rule := &formtree.Rule{Fields: map[string]*formtree.Rule{
		"name": {
			OnChange: func(ctx context.Context, v any) error {
				if v == "x" {
					return errors.New("change bad")
				}
				return nil
			},
			OnSubmit: func(ctx context.Context, v any) error {
				return errors.New("submit bad")
			},
		},
	}}
	form := formtree.New(map[string]any{"name": ""}, formtree.Options{Rules: rule})

	form.Root().Field("name").Set(ctx, "x")
	if err := form.Root().Field("name").Err(); err == nil || err.Message != "change bad" {
		t.Fatalf("after set: err = %+v, want change bad", err)
	}

	// submit keeps the on-change error; on-submit is a fallback, not cumulative
	_ = form.Submit(ctx)
	if err := form.Root().Field("name").Err(); err == nil || err.Message != "change bad" {
		t.Fatalf("after submit: err = %+v, want change bad", err)
	}

	// once on-change passes, on-submit takes over
	form.Root().Field("name").Set(ctx, "ok")
	if err := form.Root().Field("name").Err(); err != nil {
		t.Fatalf("passing on-change must clear the error, got %+v", err)
	}
	_ = form.Submit(ctx)
	if err := form.Root().Field("name").Err(); err == nil || err.Message != "submit bad" {
		t.Fatalf("after submit: err = %+v, want submit bad", err)
	}
}

func TestValidate_AbsentRuleLeavesErrorUntouched(t *testing.T) {
	ctx := context.Background()
	rule := &formtree.Rule{Fields: map[string]*formtree.Rule{
		"a": {OnChange: func(ctx context.Context, v any) error {
			if v == "bad" {
				return errors.New("a failed")
			}
			return nil
		}},
	}}
	form := formtree.New(map[string]any{"a": "", "b": ""}, formtree.Options{Rules: rule})

	form.Root().Field("a").Set(ctx, "bad")
	_ = form.Submit(ctx)

	// "a" keeps its on-change error through submit, "b" has no rule and no error
	if err := form.Root().Field("a").Err(); err == nil || err.Message != "a failed" {
		t.Fatalf("a err = %+v", err)
	}
	if err := form.Root().Field("b").Err(); err != nil {
		t.Fatalf("b err = %+v, want nil", err)
	}
}

func TestValidate_PanickingValidatorYieldsSentinel(t *testing.T) {
	rule := &formtree.Rule{Fields: map[string]*formtree.Rule{
		"name": {OnChange: func(ctx context.Context, v any) error {
			panic("boom")
		}},
	}}
	form := formtree.New(map[string]any{"name": ""}, formtree.Options{Rules: rule})

	form.Root().Field("name").Set(context.Background(), "x")
	err := form.Root().Field("name").Err()
	if err == nil || err.Code != formtree.CodeValidationFailed {
		t.Fatalf("err = %+v, want sentinel %s", err, formtree.CodeValidationFailed)
	}
	if err.Path != "/name" {
		t.Fatalf("sentinel path = %q", err.Path)
	}
}

func TestValidate_IssuePathsFilledByEngine(t *testing.T) {
	rule := &formtree.Rule{Fields: map[string]*formtree.Rule{
		"list": {Item: &formtree.Rule{Fields: map[string]*formtree.Rule{
			"id": {OnSubmit: rules.Required()},
		}}},
	}}
	form := formtree.New(map[string]any{
		"list": []any{map[string]any{"id": ""}},
	}, formtree.Options{Rules: rule})

	_ = form.Submit(context.Background())
	err := form.Root().Field("list").At(0).Field("id").Err()
	if err == nil || err.Code != formtree.CodeRequired {
		t.Fatalf("err = %+v, want required", err)
	}
	if err.Path != "/list/0/id" {
		t.Fatalf("path = %q, want /list/0/id", err.Path)
	}
}

// Scenario from the submit contract: one item in the list is rejected at the
// array level, and the item's own id is independently rejected; the submit
// callback never runs.
func TestSubmit_ScenarioSingleItemList(t *testing.T) {
	ctx := context.Background()
	var calls int32
	rule := &formtree.Rule{Fields: map[string]*formtree.Rule{
		"list": {
			OnSubmit: func(ctx context.Context, v any) error {
				if len(v.([]any)) == 1 {
					return errors.New("One item is not allowed")
				}
				return nil
			},
			Item: &formtree.Rule{Fields: map[string]*formtree.Rule{
				"id": {OnSubmit: func(ctx context.Context, v any) error {
					if s, _ := v.(string); s == "" {
						return errors.New("Id is required")
					}
					return nil
				}},
			}},
		},
	}}
	form := formtree.New(map[string]any{
		"id":   "",
		"list": []any{map[string]any{"id": "", "name": ""}},
	}, formtree.Options{
		Rules: rule,
		OnSubmit: func(ctx context.Context, v any) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	})

	err := form.Submit(ctx)
	if err == nil {
		t.Fatalf("expected validation issues from submit")
	}
	iss, ok := formtree.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("issues = %+v", err)
	}

	root := form.Root()
	if e := root.Field("list").Err(); e == nil || e.Message != "One item is not allowed" {
		t.Fatalf("list err = %+v", e)
	}
	if e := root.Field("list").At(0).Field("id").Err(); e == nil || e.Message != "Id is required" {
		t.Fatalf("item id err = %+v", e)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("submit callback ran despite errors")
	}

	// growing the list past one element clears the array-level error; items
	// are still checked independently
	root.Field("list").Push(map[string]any{"id": "x", "name": ""})
	root = form.Root()
	root.Field("list").Push(map[string]any{"id": "", "name": ""})

	err = form.Submit(ctx)
	if err == nil {
		t.Fatalf("expected item issues from submit")
	}
	root = form.Root()
	if e := root.Field("list").Err(); e != nil {
		t.Fatalf("list err = %+v, want nil for 3 items", e)
	}
	if e := root.Field("list").At(1).Field("id").Err(); e != nil {
		t.Fatalf("filled item err = %+v, want nil", e)
	}
	if e := root.Field("list").At(0).Field("id").Err(); e == nil {
		t.Fatalf("empty item 0 should carry an error")
	}
	if e := root.Field("list").At(2).Field("id").Err(); e == nil {
		t.Fatalf("empty item 2 should carry an error")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("submit callback ran despite item errors")
	}
}
