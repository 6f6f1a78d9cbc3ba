package core

import (
	"math"
	"reflect"
	"time"

	"github.com/joeydtaylor/steeze-promised/pkg/promise"
	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

// Truthy reports whether v counts as a present value. nil, false, "", zero
// and NaN numbers, and nil pointers, maps, slices, funcs, chans and
// interfaces are falsy. Empty but non-nil slices and maps are truthy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return !rv.IsNil()
	}
	return true
}

var timeType = reflect.TypeOf(time.Time{})

// DefaultIsResolvable accepts plain data: strings, booleans, numbers,
// time.Time, arrays and slices (byte slices included), maps, structs and
// pointers to them. Responses, errors, thenables, funcs and chans are
// rejected.
func DefaultIsResolvable(v any) bool {
	switch v.(type) {
	case nil, *httpx.Response, error, promise.Thenable, promise.Awaitable:
		return false
	}
	return plainData(reflect.TypeOf(v))
}

func plainData(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Array, reflect.Slice, reflect.Map, reflect.Struct:
		return true
	case reflect.Pointer:
		switch t.Elem().Kind() {
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
			return true
		}
	}
	return false
}
