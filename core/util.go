package core

import (
	"reflect"
	"strings"
	"time"

	"github.com/kat-co/vala"
)

// NowFunc is the clock used by the core packages. mockable
var NowFunc = time.Now

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanEmail normalizes an email address for storage and lookups.
func CleanEmail(email string) string {
	return CleanString(email, true /* lower */)
}

// IsNotNil is vala.IsNotNil for dependencies of any kind.
// Values that cannot be nil, like struct values behind an interface, always pass.
func IsNotNil(obtained interface{}, paramName string) vala.Checker {
	if obtained != nil {
		switch reflect.ValueOf(obtained).Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		default:
			return func() (bool, string) { return true, "" }
		}
	}
	return vala.IsNotNil(obtained, paramName)
}
