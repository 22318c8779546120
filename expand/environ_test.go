package expand

import (
	"reflect"
	"testing"
)

func TestListEnviron(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  []string // expected iteration order of names from Each
	}{
		{name: "Empty", pairs: nil, want: nil},
		{name: "Simple", pairs: []string{"b=2", "a=1"}, want: []string{"a", "b"}},
		{name: "MissingEqual", pairs: []string{"a=1", "invalid", "b=2"}, want: []string{"a", "b"}},
		{name: "DuplicateNames", pairs: []string{"a=1", "a=2"}, want: []string{"a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := ListEnviron(tc.pairs...)
			var got []string
			env.Each(func(name string, v Variable) bool {
				got = append(got, name)
				return true
			})
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ListEnviron(%q) names = %q, want %q", tc.pairs, got, tc.want)
			}
		})
	}
}

func TestListEnvironDuplicateLastWins(t *testing.T) {
	env := ListEnviron("a=1", "a=2")
	v := env.Get("a")
	if !v.IsSet() || v.String() != "2" {
		t.Fatalf("Get(a) = %+v, want value 2", v)
	}
}

func TestListEnvironUnsetName(t *testing.T) {
	env := ListEnviron("a=1")
	v := env.Get("missing")
	if v.IsSet() {
		t.Fatalf("Get(missing) = %+v, want unset", v)
	}
}

func TestMemSetGet(t *testing.T) {
	m := NewMem(nil)
	if err := m.Set("x", Variable{Set: true, Kind: String, Str: "1"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v := m.Get("x")
	if !v.IsSet() || v.Str != "1" {
		t.Fatalf("Get(x) = %+v, want Str=1", v)
	}
}

func TestMemReadOnly(t *testing.T) {
	m := NewMem(nil)
	m.Set("x", Variable{Set: true, ReadOnly: true, Kind: String, Str: "1"})
	err := m.Set("x", Variable{Set: true, Kind: String, Str: "2"})
	if err == nil {
		t.Fatalf("Set on readonly var: want error, got nil")
	}
	if _, ok := err.(*ReadOnlyError); !ok {
		t.Fatalf("Set on readonly var: want *ReadOnlyError, got %T", err)
	}
}

func TestMemFromBase(t *testing.T) {
	base := ListEnviron("a=1", "b=2")
	m := NewMem(base)
	if got := m.Get("a").String(); got != "1" {
		t.Fatalf("Get(a) = %q, want 1", got)
	}
	if got := m.Get("b").String(); got != "2" {
		t.Fatalf("Get(b) = %q, want 2", got)
	}
}

func TestVariableResolve(t *testing.T) {
	m := NewMem(nil)
	m.Set("target", Variable{Set: true, Kind: String, Str: "value"})
	m.Set("ref", Variable{Set: true, Kind: NameRef, Str: "target"})

	ref := m.Get("ref")
	name, resolved := ref.Resolve(m)
	if name != "target" {
		t.Fatalf("Resolve name = %q, want target", name)
	}
	if resolved.String() != "value" {
		t.Fatalf("Resolve value = %q, want value", resolved.String())
	}
}
