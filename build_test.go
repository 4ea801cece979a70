package formtree_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	formtree "github.com/reoring/formtree"
)

func TestExtractValue_RoundTrip(t *testing.T) {
	initial := map[string]any{
		"id":   "u-1",
		"age":  42,
		"ok":   true,
		"when": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"address": map[string]any{
			"city": "Oslo",
			"zip":  "0150",
		},
		"tags": []any{"a", "b"},
		"list": []any{
			map[string]any{"id": "", "name": ""},
		},
	}
	form := formtree.New(initial, formtree.Options{})
	got := formtree.ExtractValue(form.Root())
	if !reflect.DeepEqual(got, initial) {
		t.Fatalf("round trip mismatch:\n got  %#v\n want %#v", got, initial)
	}
}

func TestBuild_Classification(t *testing.T) {
	form := formtree.New(map[string]any{
		"s":    "x",
		"n":    nil,
		"when": time.Now(),
		"raw":  []byte("opaque"),
		"obj":  map[string]any{"k": "v"},
		"arr":  []any{1, 2},
	}, formtree.Options{})
	root := form.Root()
	if root.Kind() != formtree.KindObject {
		t.Fatalf("root kind = %v, want object", root.Kind())
	}
	for name, want := range map[string]formtree.Kind{
		"s":    formtree.KindPrimitive,
		"n":    formtree.KindPrimitive,
		"when": formtree.KindPrimitive, // dates are opaque leaves
		"raw":  formtree.KindPrimitive,
		"obj":  formtree.KindObject,
		"arr":  formtree.KindArray,
	} {
		f := root.Field(name)
		if f == nil {
			t.Fatalf("missing field %q", name)
		}
		if f.Kind() != want {
			t.Fatalf("field %q kind = %v, want %v", name, f.Kind(), want)
		}
	}
}

func TestBuild_TypedValuesTraverseReflectively(t *testing.T) {
	type Address struct {
		City string `json:"city"`
		Zip  string `json:"zip"`
	}
	type User struct {
		Name    string   `json:"name"`
		Tags    []string `json:"tags"`
		Addr    Address  `json:"addr"`
		Ignored string   `json:"-"`
	}
	form := formtree.New(User{Name: "Ada", Tags: []string{"x"}, Addr: Address{City: "Oslo"}}, formtree.Options{})
	root := form.Root()
	if got := root.Field("name").Value(); got != "Ada" {
		t.Fatalf("name = %v", got)
	}
	if root.Field("Ignored") != nil || root.Field("-") != nil {
		t.Fatalf("disabled field was built")
	}
	if got := root.Field("tags").Len(); got != 1 {
		t.Fatalf("tags len = %d", got)
	}
	if got := root.Field("addr").Field("city").Value(); got != "Oslo" {
		t.Fatalf("city = %v", got)
	}
	if got := root.Field("addr").Field("city").Path().Pointer(); got != "/addr/city" {
		t.Fatalf("city path = %q", got)
	}
}

func TestSet_PrimitiveGrowsIntoObject(t *testing.T) {
	form := formtree.New(map[string]any{"profile": nil}, formtree.Options{})
	ctx := context.Background()

	p := form.Root().Field("profile")
	if p.Kind() != formtree.KindPrimitive {
		t.Fatalf("nil field kind = %v, want primitive", p.Kind())
	}
	p.Set(ctx, map[string]any{"foo": "bar"})

	p = form.Root().Field("profile")
	if p.Kind() != formtree.KindObject {
		t.Fatalf("kind after set = %v, want object", p.Kind())
	}
	if got := p.Field("foo").Value(); got != "bar" {
		t.Fatalf("fields.foo.value = %v, want bar", got)
	}
	if got := p.Field("foo").Path().Pointer(); got != "/profile/foo" {
		t.Fatalf("grown child path = %q", got)
	}
}

func TestSet_PreservesSiblingIdentity(t *testing.T) {
	form := formtree.New(map[string]any{
		"a": "1",
		"b": map[string]any{"c": "2"},
	}, formtree.Options{})
	before := form.Root().Field("b")

	form.Root().Field("a").Set(context.Background(), "changed")

	after := form.Root().Field("b")
	if before != after {
		t.Fatalf("untouched sibling subtree was rebuilt")
	}
	if got := form.Root().Field("a").Value(); got != "changed" {
		t.Fatalf("a = %v", got)
	}
}
