// Package enum keeps a process-wide registry of string-backed enum
// values so user input can be validated against the values the code
// actually declared.
package enum

import (
	"fmt"
	"reflect"
)

// The registry is keyed by the concrete enum type, so two enums
// sharing an underlying value never collide.
var registry = map[reflect.Type]any{}

type valueSet[T comparable] map[string]T

// New registers value under its type and returns it unchanged, so it
// can be used directly in a var declaration.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	if _, ok := registry[t]; !ok {
		registry[t] = valueSet[T]{}
	}

	registry[t].(valueSet[T])[reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum resolves s to a registered value of T.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	set, ok := registry[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := set.(valueSet[T])[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
