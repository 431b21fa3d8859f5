package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[reflect.Type]any{}

type enum[T comparable] struct {
	toEnum   map[string]T
	toString map[T]string
}

// New registers value under name. If name is omitted, the string form of
// value is used.
func New[T comparable](value T, name ...string) T {
	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = enum[T]{toEnum: make(map[string]T), toString: make(map[T]string)}
	}

	s := fmt.Sprint(value)
	if len(name) > 0 {
		s = name[0]
	}

	e := enumManager[t].(enum[T])
	e.toEnum[s] = value
	e.toString[value] = s
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

func ToString[T comparable](value T) string {
	e, ok := enumManager[reflect.TypeOf(value)]
	if !ok {
		return ""
	}

	return e.(enum[T]).toString[value]
}
