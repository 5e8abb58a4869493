package enhance

import (
	"fmt"
	"reflect"
)

type (
	// Type describes a constructible unit participating in composition.
	// Dependencies declares the ordered tokens resolved externally and
	// passed positionally to New.  Statics model type-level properties.
	Type interface {
		Name() string
		Dependencies() []Token
		New(args ...any) (any, error)
		Static(name string) (*PropertyDescriptor, bool)
		StaticKeys() []string
	}

	// PropertyDescriptor describes a single property exposed by an
	// instance or a Type.
	PropertyDescriptor struct {
		Name       string
		Value      any
		Enumerable bool
		Writable   bool
		Method     bool
	}

	// StructType adapts an ordinary struct to the Type contract using
	// reflective constructor binding.  When the struct declares a
	// Constructor method it is invoked with the resolved dependency
	// values, positionally aligned to the declared tokens.  A trailing
	// error return aborts construction.
	StructType struct {
		typ     reflect.Type
		tokens  []Token
		statics map[string]*PropertyDescriptor
		keys    []string
	}

	// ConstructionError reports a failed construction of a Type.
	ConstructionError struct {
		typ    Type
		reason error
	}
)

// DependenciesProperty is the static property under which a Type
// publishes its dependency tokens.
const DependenciesProperty = "Dependencies"

const constructorName = "Constructor"

// Of adapts struct type T to the Type contract.  tokens declare the
// constructor-injected dependencies in positional order and must not
// repeat.
func Of[T any](tokens ...Token) *StructType {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("enhance: %v is not a struct type", typ))
	}
	declared := make(map[Token]struct{}, len(tokens))
	for _, token := range tokens {
		if _, dup := declared[token]; dup {
			panic(fmt.Sprintf("enhance: %v declares token %v more than once", typ, token))
		}
		declared[token] = struct{}{}
	}
	return &StructType{
		typ:    typ,
		tokens: append([]Token(nil), tokens...),
	}
}

func (t *StructType) Name() string {
	return t.typ.Name()
}

func (t *StructType) Dependencies() []Token {
	return append([]Token(nil), t.tokens...)
}

// WithStatic registers a type-level property and returns t for chaining.
func (t *StructType) WithStatic(name string, value any) *StructType {
	if t.statics == nil {
		t.statics = make(map[string]*PropertyDescriptor)
	}
	if _, dup := t.statics[name]; !dup {
		t.keys = append(t.keys, name)
	}
	t.statics[name] = &PropertyDescriptor{
		Name:       name,
		Value:      value,
		Enumerable: true,
		Writable:   true,
	}
	return t
}

func (t *StructType) Static(name string) (*PropertyDescriptor, bool) {
	if name == DependenciesProperty {
		return &PropertyDescriptor{
			Name:       name,
			Value:      t.Dependencies(),
			Enumerable: true,
		}, true
	}
	if descriptor, ok := t.statics[name]; ok {
		copied := *descriptor
		return &copied, true
	}
	return nil, false
}

func (t *StructType) StaticKeys() []string {
	keys := make([]string, 1, len(t.keys)+1)
	keys[0] = DependenciesProperty
	for _, key := range t.keys {
		if key != DependenciesProperty {
			keys = append(keys, key)
		}
	}
	return keys
}

// New allocates a *T and invokes its Constructor, when declared, with
// the resolved dependency values.
func (t *StructType) New(args ...any) (any, error) {
	instance := reflect.New(t.typ)
	if ctor, ok := instance.Type().MethodByName(constructorName); ok {
		in, err := coerceArgs(ctor.Func.Type(), 1, args)
		if err != nil {
			return nil, &ConstructionError{typ: t, reason: err}
		}
		if err := resultError(ctor.Func.Call(append([]reflect.Value{instance}, in...))); err != nil {
			return nil, &ConstructionError{typ: t, reason: err}
		}
	} else if len(args) > 0 {
		return nil, &ConstructionError{typ: t, reason: fmt.Errorf(
			"%d dependencies received but %v has no %s method",
			len(args), t.typ, constructorName)}
	}
	return instance.Interface(), nil
}

// ConstructionError

func (e *ConstructionError) Type() Type {
	return e.typ
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("unable to construct %v: %v", e.typ.Name(), e.reason)
}

func (e *ConstructionError) Unwrap() error {
	return e.reason
}
