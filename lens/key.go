package lens

import (
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"
)

// Record is implemented by values that control their own key access.
// With must return a copy of the receiver, of the same concrete type,
// where key holds value.
type Record interface {
	Get(key string) (any, bool)
	With(key string, value any) any
}

// maxGrowth bounds how far past the end of a slice a write may reach.
// A larger index is treated like any other key the slice cannot hold.
const maxGrowth = 1 << 16

// Key creates a lens for a named member of a dynamically typed subject.
//
// Reading from a nil subject, or a subject without the key, yields nil.
// Writing into a nil subject creates a new map[string]any holding only
// key. Writing into an existing subject makes a shallow copy of the same
// runtime type with key overridden:
//
//   - map[string]any and other maps with string keys are copied.
//   - Record values are copied through Record.With. A nil Record is nil.
//   - structs and pointers to structs are copied field by field; the
//     member is found by its `lens:"name"` tag, then its exact name, then
//     a case-insensitive name. A nil struct pointer is replaced by a
//     pointer to a new zero struct.
//   - slices and arrays are addressed by decimal index.
//
// Writing nil where nothing is stored (a nil subject, or a member the
// subject does not have) returns the subject unchanged. Writing any other
// value to a member the subject cannot hold (a scalar, a non-index key on
// a slice) replaces the subject with a new map[string]any holding only
// key.
func Key(key string) Lens[any, any] {
	return New(
		func(s any) any { return getKey(s, key) },
		func(s any, v any) any { return setKey(s, key, v) },
	)
}

// Path composes one Key lens per key, left to right. An empty path is the
// transparent lens.
func Path(keys ...string) Lens[any, any] {
	if len(keys) == 0 {
		return Transparent[any]()
	}
	l := Key(keys[0])
	for _, k := range keys[1:] {
		l = Compose(l, Key(k))
	}
	return l
}

func getKey(subject any, key string) any {
	switch s := subject.(type) {
	case nil:
		return nil
	case map[string]any:
		return s[key]
	case Record:
		if isNilRecord(s) {
			return nil
		}
		v, _ := s.Get(key)
		return v
	}

	rv := reflect.ValueOf(subject)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return nil
		}
		return structField(rv.Elem(), key)
	case reflect.Struct:
		return structField(rv, key)
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil
		}
		return rv.Index(i).Interface()
	}
	return nil
}

func setKey(subject any, key string, value any) any {
	switch s := subject.(type) {
	case nil:
		if value == nil {
			return nil
		}
		return map[string]any{key: value}
	case map[string]any:
		if _, ok := s[key]; !ok && value == nil {
			return s
		}
		out := make(map[string]any, len(s)+1)
		maps.Copy(out, s)
		out[key] = value
		return out
	case Record:
		if isNilRecord(s) {
			if value == nil {
				return subject
			}
			return map[string]any{key: value}
		}
		return s.With(key, value)
	}

	rv := reflect.ValueOf(subject)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return setMapKey(rv, key, value)
		}
	case reflect.Pointer:
		if rv.Type().Elem().Kind() == reflect.Struct {
			return setStructPointer(rv, key, value)
		}
	case reflect.Struct:
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		if !setStructField(cp, key, value) {
			return subject
		}
		return cp.Interface()
	case reflect.Slice, reflect.Array:
		if out, ok := setIndex(rv, key, value); ok {
			return out
		}
	}
	if value == nil {
		return subject
	}
	return map[string]any{key: value}
}

func setMapKey(rv reflect.Value, key string, value any) any {
	t := rv.Type()
	k := reflect.ValueOf(key).Convert(t.Key())
	if value == nil && !rv.MapIndex(k).IsValid() {
		return rv.Interface()
	}
	out := reflect.MakeMapWithSize(t, rv.Len()+1)
	iter := rv.MapRange()
	for iter.Next() {
		out.SetMapIndex(iter.Key(), iter.Value())
	}
	out.SetMapIndex(k, assignable(value, t.Elem(), key))
	return out.Interface()
}

func setStructPointer(rv reflect.Value, key string, value any) any {
	if rv.IsNil() && value == nil {
		return rv.Interface()
	}
	cp := reflect.New(rv.Type().Elem())
	if !rv.IsNil() {
		cp.Elem().Set(rv.Elem())
	}
	if !setStructField(cp.Elem(), key, value) {
		return rv.Interface()
	}
	return cp.Interface()
}

// setIndex writes value at the decimal index key of a slice or array.
// It reports false when key is not an index the value can hold.
func setIndex(rv reflect.Value, key string, value any) (any, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= rv.Len()+maxGrowth {
		return nil, false
	}
	if i >= rv.Len() {
		if value == nil {
			return rv.Interface(), true
		}
		if rv.Kind() == reflect.Array {
			return nil, false
		}
	}
	elem := assignable(value, rv.Type().Elem(), key)

	if rv.Kind() == reflect.Array {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		cp.Index(i).Set(elem)
		return cp.Interface(), true
	}
	n := max(rv.Len(), i+1)
	out := reflect.MakeSlice(rv.Type(), n, n)
	reflect.Copy(out, rv)
	out.Index(i).Set(elem)
	return out.Interface(), true
}

func isNilRecord(r Record) bool {
	rv := reflect.ValueOf(r)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func structField(rv reflect.Value, key string) any {
	i, ok := fieldIndex(rv.Type(), key)
	if !ok {
		return nil
	}
	return rv.Field(i).Interface()
}

// setStructField reports false when the field is missing and value is
// nil. A struct cannot gain members, so any other write to a missing
// field panics.
func setStructField(rv reflect.Value, key string, value any) bool {
	i, ok := fieldIndex(rv.Type(), key)
	if !ok {
		if value == nil {
			return false
		}
		panic(fmt.Sprintf("lens: %s has no field %q", rv.Type(), key))
	}
	rv.Field(i).Set(assignable(value, rv.Type().Field(i).Type, key))
	return true
}

// fieldIndex resolves key to an exported field: tag, exact name, then
// case-insensitive name.
func fieldIndex(t reflect.Type, key string) (int, bool) {
	fold := -1
	exact := -1
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("lens"); ok {
			if name, _, _ := strings.Cut(tag, ","); name == key {
				return i, true
			}
			continue
		}
		if f.Name == key && exact < 0 {
			exact = i
		}
		if fold < 0 && strings.EqualFold(f.Name, key) {
			fold = i
		}
	}
	if exact >= 0 {
		return exact, true
	}
	if fold >= 0 {
		return fold, true
	}
	return 0, false
}

// assignable converts value for storage in a slot of type t. nil becomes
// the zero value of t.
func assignable(value any, t reflect.Type, key string) reflect.Value {
	if value == nil {
		return reflect.Zero(t)
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(t) {
		panic(fmt.Sprintf("lens: cannot use %T as %s for key %q", value, t, key))
	}
	return v
}
