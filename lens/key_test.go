package lens

import (
	"maps"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"pgregory.net/rapid"

	"github.com/authcorp/optics/internal/testutil"
)

// attrs is a Record that counts how many times it was cloned.
type attrs struct {
	values map[string]any
	clones int
}

func (a attrs) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a attrs) With(key string, value any) any {
	values := maps.Clone(a.values)
	if values == nil {
		values = map[string]any{}
	}
	values[key] = value
	return attrs{values: values, clones: a.clones + 1}
}

// ptrAttrs is a Record with pointer receivers.
type ptrAttrs struct {
	values map[string]any
}

func (a *ptrAttrs) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a *ptrAttrs) With(key string, value any) any {
	values := maps.Clone(a.values)
	if values == nil {
		values = map[string]any{}
	}
	values[key] = value
	return &ptrAttrs{values: values}
}

type Doc map[string]any

type Server struct {
	Host    string `lens:"hostname"`
	Port    int
	Enabled bool
	secret  string
}

func TestKeySubjects(t *testing.T) {
	tests := []struct {
		name    string
		subject any
		key     string
		value   any
		want    any
		wantGet any
	}{
		{
			name:    "nil punches out a map",
			subject: nil,
			key:     "a",
			value:   1,
			want:    map[string]any{"a": 1},
			wantGet: nil,
		},
		{
			name:    "plain map is copied",
			subject: map[string]any{"a": 1, "b": 2},
			key:     "a",
			value:   3,
			want:    map[string]any{"a": 3, "b": 2},
			wantGet: 1,
		},
		{
			name:    "named map keeps its type",
			subject: Doc{"a": 1},
			key:     "b",
			value:   2,
			want:    Doc{"a": 1, "b": 2},
			wantGet: nil,
		},
		{
			name:    "typed map keeps its element type",
			subject: map[string]int{"a": 1},
			key:     "a",
			value:   7,
			want:    map[string]int{"a": 7},
			wantGet: 1,
		},
		{
			name:    "struct value is copied",
			subject: Server{Host: "localhost", Port: 80},
			key:     "Port",
			value:   8080,
			want:    Server{Host: "localhost", Port: 8080},
			wantGet: 80,
		},
		{
			name:    "struct field by tag",
			subject: Server{Host: "localhost"},
			key:     "hostname",
			value:   "example.com",
			want:    Server{Host: "example.com"},
			wantGet: "localhost",
		},
		{
			name:    "struct field by folded name",
			subject: Server{},
			key:     "enabled",
			value:   true,
			want:    Server{Enabled: true},
			wantGet: false,
		},
		{
			name:    "nil struct pointer gets a fresh struct",
			subject: (*Server)(nil),
			key:     "Port",
			value:   1,
			want:    &Server{Port: 1},
			wantGet: nil,
		},
		{
			name:    "slice by index",
			subject: []any{"a", "b"},
			key:     "1",
			value:   "c",
			want:    []any{"a", "c"},
			wantGet: "b",
		},
		{
			name:    "slice grows past the end",
			subject: []string{"a"},
			key:     "2",
			value:   "c",
			want:    []string{"a", "", "c"},
			wantGet: nil,
		},
		{
			name:    "array by index",
			subject: [2]int{1, 2},
			key:     "0",
			value:   9,
			want:    [2]int{9, 2},
			wantGet: 1,
		},
		{
			name:    "scalar is treated as absent",
			subject: 42,
			key:     "a",
			value:   1,
			want:    map[string]any{"a": 1},
			wantGet: nil,
		},
		{
			name:    "nil value zeroes a typed slot",
			subject: map[string]int{"a": 1},
			key:     "a",
			value:   nil,
			want:    map[string]int{"a": 0},
			wantGet: 1,
		},
		{
			name:    "non index key replaces a slice",
			subject: []any{1},
			key:     "x",
			value:   2,
			want:    map[string]any{"x": 2},
			wantGet: nil,
		},
		{
			name:    "index far past the end replaces a slice",
			subject: []any{},
			key:     "99999999999999",
			value:   1,
			want:    map[string]any{"99999999999999": 1},
			wantGet: nil,
		},
		{
			name:    "array index out of range replaces an array",
			subject: [1]int{},
			key:     "3",
			value:   1,
			want:    map[string]any{"3": 1},
			wantGet: nil,
		},
		{
			name:    "nil into nil stays nil",
			subject: nil,
			key:     "a",
			value:   nil,
			want:    nil,
			wantGet: nil,
		},
		{
			name:    "nil into a missing map key",
			subject: map[string]any{"b": 1},
			key:     "a",
			value:   nil,
			want:    map[string]any{"b": 1},
			wantGet: nil,
		},
		{
			name:    "nil into a missing typed map key",
			subject: map[string]int{"b": 1},
			key:     "a",
			value:   nil,
			want:    map[string]int{"b": 1},
			wantGet: nil,
		},
		{
			name:    "nil into a missing struct field",
			subject: Server{Port: 1},
			key:     "missing",
			value:   nil,
			want:    Server{Port: 1},
			wantGet: nil,
		},
		{
			name:    "nil into a nil struct pointer",
			subject: (*Server)(nil),
			key:     "Port",
			value:   nil,
			want:    (*Server)(nil),
			wantGet: nil,
		},
		{
			name:    "nil into a non index slice key",
			subject: []any{1},
			key:     "x",
			value:   nil,
			want:    []any{1},
			wantGet: nil,
		},
		{
			name:    "nil past the end of a slice",
			subject: []any{1},
			key:     "5",
			value:   nil,
			want:    []any{1},
			wantGet: nil,
		},
		{
			name:    "nil into a scalar",
			subject: "text",
			key:     "a",
			value:   nil,
			want:    "text",
			wantGet: nil,
		},
		{
			name:    "nil record is absent",
			subject: (*ptrAttrs)(nil),
			key:     "a",
			value:   1,
			want:    map[string]any{"a": 1},
			wantGet: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Key(tt.key)
			if got := View(l, tt.subject); !reflect.DeepEqual(got, tt.wantGet) {
				t.Errorf("View: expected %#v, got %#v", tt.wantGet, got)
			}
			got := Set(l, tt.value, tt.subject)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Set: expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestKeyRecord(t *testing.T) {
	subject := attrs{values: map[string]any{"color": "red", "size": 3}}

	if View(Key("color"), any(subject)) != "red" {
		t.Error("expected red")
	}

	got, ok := Set(Key("color"), any("blue"), any(subject)).(attrs)
	if !ok {
		t.Fatal("expected attrs")
	}
	if got.values["color"] != "blue" || got.values["size"] != 3 {
		t.Errorf("unexpected values %v", got.values)
	}
	if got.clones != 1 {
		t.Errorf("expected one clone, got %d", got.clones)
	}
	if subject.values["color"] != "red" {
		t.Error("original should be unchanged")
	}
}

func TestKeyStructPointerIsCopied(t *testing.T) {
	original := &Server{Host: "a", Port: 1, secret: "s"}
	got := Set(Key("Port"), any(2), any(original)).(*Server)

	if got == original {
		t.Fatal("expected a new pointer")
	}
	if got.Port != 2 || got.Host != "a" || got.secret != "s" {
		t.Errorf("unexpected copy %+v", got)
	}
	if original.Port != 1 {
		t.Error("original should be unchanged")
	}
}

func TestKeySharesUntouchedSiblings(t *testing.T) {
	shared := map[string]any{"deep": true}
	subject := map[string]any{
		"left":  shared,
		"right": map[string]any{"v": 1},
	}

	got := Set(Path("right", "v"), any(2), any(subject)).(map[string]any)
	if reflect.ValueOf(got["left"]).UnsafePointer() != reflect.ValueOf(shared).UnsafePointer() {
		t.Error("untouched sibling should be shared, not copied")
	}
}

func TestKeyMisusePanics(t *testing.T) {
	tests := []struct {
		name    string
		subject any
		key     string
		value   any
	}{
		{"unknown struct field", Server{}, "missing", 1},
		{"unexported struct field", Server{}, "secret", "x"},
		{"wrong field type", Server{}, "Port", "eighty"},
		{"wrong map element type", map[string]int{}, "a", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Set(Key(tt.key), tt.value, tt.subject)
		})
	}
}

func TestSetNeverMutatesSubject(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		subject := testutil.DocumentGen(3).Draw(t, "subject")
		path := testutil.PathGen(4).Draw(t, "path")
		value := testutil.ScalarGen().Draw(t, "value")

		before := testutil.Clone(subject)
		got := Set(Path(path...), value, subject)

		if !reflect.DeepEqual(before, subject) {
			t.Fatalf("subject mutated: %v != %v", before, subject)
		}
		if v := View(Path(path...), got); !reflect.DeepEqual(v, value) {
			t.Fatalf("expected %v at %v, got %v", value, path, v)
		}
	})
}

func TestSetSetKeepsLastWrite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		subject := testutil.DocumentGen(3).Draw(t, "subject")
		l := Path(testutil.PathGen(4).Draw(t, "path")...)
		first := testutil.ScalarGen().Draw(t, "first")
		second := testutil.ScalarGen().Draw(t, "second")

		twice := Set(l, second, Set(l, first, subject))
		once := Set(l, second, subject)
		if !testutil.Equivalent(twice, once) {
			t.Fatalf("expected %v, got %v", once, twice)
		}
	})
}

func TestPunchoutBuildsSingleKeyChain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.SliceOfN(rapid.StringMatching(`[a-e]{1,2}`), 1, 6).Draw(t, "path")
		value := testutil.ScalarGen().Draw(t, "value")

		var cur any = Set(Path(path...), value, nil)
		for i, key := range path {
			m, ok := cur.(map[string]any)
			if !ok {
				t.Fatalf("level %d: expected map, got %T", i, cur)
			}
			if len(m) != 1 {
				t.Fatalf("level %d: expected exactly one key, got %v", i, m)
			}
			cur = m[key]
		}
		if !reflect.DeepEqual(cur, value) {
			t.Fatalf("expected %v, got %v", value, cur)
		}
	})
}

func TestViewThenSetIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		subject := testutil.ValueGen(3).Draw(t, "subject")
		l := Path(testutil.PathGen(4).Draw(t, "path")...)

		before := testutil.Clone(subject)
		got := Set(l, View(l, subject), subject)
		if !testutil.Equivalent(got, subject) {
			t.Fatalf("expected %v, got %v", subject, got)
		}
		if !reflect.DeepEqual(before, subject) {
			t.Fatalf("subject mutated: %v != %v", before, subject)
		}
	})
}

func TestStructViewThenSet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Set(View(s), s) == s for any key on a struct", prop.ForAll(
		func(key, host string, port int) bool {
			l := Key(key)
			subject := Server{Host: host, Port: port, secret: "s"}
			return reflect.DeepEqual(Set(l, View(l, any(subject)), any(subject)), subject)
		},
		gen.OneConstOf("hostname", "host", "Port", "enabled", "secret", "missing", "0"),
		gen.AnyString(),
		gen.Int(),
	))

	properties.Property("Set(View(s), s) == s for any key on a struct pointer", prop.ForAll(
		func(key string, present bool) bool {
			l := Key(key)
			var subject *Server
			if present {
				subject = &Server{Host: "h", Port: 1}
			}
			return reflect.DeepEqual(Set(l, View(l, any(subject)), any(subject)), subject)
		},
		gen.OneConstOf("hostname", "Port", "missing", "0"),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
