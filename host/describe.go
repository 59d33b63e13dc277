package host

import (
	"reflect"

	"github.com/dop251/goja"
)

// TypeOf names the JavaScript type of v for diagnostics. Objects are named
// by their intrinsic constructor where one applies.
func (s *Scope) TypeOf(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	case goja.IsBigInt(v):
		return "bigint"
	case goja.IsNumber(v):
		return "number"
	case goja.IsString(v):
		return "string"
	}

	if _, ok := v.(*goja.Symbol); ok {
		return "symbol"
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		if v.ExportType() != nil && v.ExportType().Kind() == reflect.Bool {
			return "boolean"
		}
		return "unknown"
	}
	if _, ok := goja.AssertFunction(obj); ok {
		return "function"
	}

	var name string
	_ = s.Try(func() {
		switch {
		case s.IsArray(obj):
			name = "Array"
		case s.IsMap(obj):
			name = "Map"
		case s.IsSet(obj):
			name = "Set"
		default:
			if k, ok := s.TypedArrayOf(obj); ok {
				name = k.String()
			}
		}
	})
	if name == "" {
		return "object"
	}
	return name
}

// IsNullish reports whether v is null or undefined.
func IsNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// IsBool reports whether v is a boolean primitive.
func IsBool(v goja.Value) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(*goja.Object); ok {
		return false
	}
	t := v.ExportType()
	return t != nil && t.Kind() == reflect.Bool
}
