package vdom

import (
	"fmt"
	"reflect"
	"strconv"
)

// Props holds attributes, event handlers, and component props.
type Props map[string]any

// Style is a style mapping merged onto a host node's style fields.
type Style map[string]string

// Ref is an output slot. When a "ref" prop is applied, Current is set to
// the host node the prop was applied to.
type Ref struct {
	Current any
}

// Reserved prop names.
const (
	PropKey      = "key"
	PropRef      = "ref"
	PropStyle    = "style"
	PropChildren = "children"
)

// Clone returns a shallow copy of the props. A nil receiver yields an
// empty, non-nil map.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get returns the prop value, or nil.
func (p Props) Get(name string) any {
	if p == nil {
		return nil
	}
	return p[name]
}

// String returns the prop as a string, formatting scalars.
func (p Props) String(name string) string {
	v := p.Get(name)
	if v == nil {
		return ""
	}
	return PropString(v)
}

// IsCallable reports whether v is a function value usable as an event handler.
func IsCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// IsObject reports whether v is a composite value (map, slice, struct,
// pointer, ...) that has no generic attribute serialization.
func IsObject(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct,
		reflect.Pointer, reflect.Interface, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// PropString converts a scalar prop value to its string form.
func PropString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	}
	if s, ok := numberString(v); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// KeyString converts a key prop to its reconciliation key. Only strings
// and numbers are keys; anything else reports false.
func KeyString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, s != ""
	}
	return numberString(v)
}

// numberString formats any Go numeric value.
func numberString(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}
