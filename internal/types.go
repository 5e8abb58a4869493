package internal

import "reflect"

var (
	AnyType   = reflect.TypeOf((*any)(nil)).Elem()
	ErrorType = reflect.TypeOf((*error)(nil)).Elem()
)
