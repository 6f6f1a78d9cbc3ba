package core

import (
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

// SendFunc sends a resolved value.
type SendFunc func(res *httpx.Response, req *http.Request, payload any) error

// EmptyFunc acknowledges a request whose last handler produced nothing.
type EmptyFunc func(res *httpx.Response, req *http.Request) error

// ErrorFunc reports a handler failure to the client.
type ErrorFunc func(res *httpx.Response, req *http.Request, err error) error

// DefaultResolve sends numbers as their decimal text and hands everything
// else to Response.Send.
func DefaultResolve(res *httpx.Response, _ *http.Request, payload any) error {
	if s, ok := numberText(payload); ok {
		return res.Send(s)
	}
	return res.Send(payload)
}

// EmptyStatus returns an EmptyFunc answering with a bare code.
func EmptyStatus(code int) EmptyFunc {
	return func(res *httpx.Response, _ *http.Request) error {
		return res.Status(code).End()
	}
}

// ErrorStatus returns an ErrorFunc answering with code and the error text.
func ErrorStatus(code int) ErrorFunc {
	return func(res *httpx.Response, _ *http.Request, err error) error {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		return res.Status(code).Send(msg)
	}
}

var (
	// DefaultResolveEmpty answers 200 with an empty body.
	DefaultResolveEmpty = EmptyStatus(http.StatusOK)
	// DefaultError answers 400 with the error text.
	DefaultError = ErrorStatus(http.StatusBadRequest)
)

func numberText(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "", false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return floatText(rv.Float(), 32), true
	case reflect.Float64:
		return floatText(rv.Float(), 64), true
	}
	return "", false
}

// floatText renders f in plain decimal notation, switching to an exponent
// only below 1e-6 or from 1e21 up.
func floatText(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	s := strconv.FormatFloat(f, 'e', -1, bits)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}
