package enhance

import (
	"fmt"
	"github.com/go-logr/logr"
	"github.com/imdario/mergo"
)

type (
	// Composed pairs a base Type with an enhancement Type into one
	// constructible type.  The combined dependency tokens are computed
	// once when the pair is created and never change.  Constructing a
	// Composed builds the base instance, then the enhancement instance
	// with the base prepended to its share of the dependencies, and
	// returns the merged Instance view over both.
	Composed struct {
		base     Type
		enh      Type
		combined []Token
		forBase  SplitFunc
		forEnh   SplitFunc
		log      logr.Logger
	}

	// Options customize composition behavior.
	Options struct {
		// Logger receives secondary faults: result hook failures and
		// base instances discarded after an enhancement failure.
		Logger *logr.Logger
	}
)

// Compose pairs base with an enhancement.  Instances of the result
// dispatch shared method names through the enhancement before the
// base.  A Composed may itself serve as the base of a further
// composition; no flattening occurs.
func Compose(base, enh Type, options ...Options) *Composed {
	if base == nil || enh == nil {
		panic("base and enh cannot be nil")
	}
	var opts Options
	for idx := range options {
		mergeOptions(&opts, options[idx])
	}
	logger := logr.Discard()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	combined, forBase, forEnh := MergeDeps(base.Dependencies(), enh.Dependencies())
	return &Composed{
		base:     base,
		enh:      enh,
		combined: combined,
		forBase:  forBase,
		forEnh:   forEnh,
		log:      logger,
	}
}

// ComposeType composes base with each enhancement in turn.  The left
// fold makes each step the base of the next, so the last enhancement
// dispatches first and the first enhancement dispatches last, just
// ahead of the original base.
func ComposeType(base Type, enhancements ...Type) Type {
	composed := base
	for _, enh := range enhancements {
		composed = Compose(composed, enh)
	}
	return composed
}

// Enhance returns a transform from a base type to its composed type,
// for use at type-declaration sites:
//
//	var Dockable = enhance.Enhance(CloseBehavior, DragBehavior)(Screen)
func Enhance(enhancements ...Type) func(Type) Type {
	return func(base Type) Type {
		return ComposeType(base, enhancements...)
	}
}

func (c *Composed) Name() string {
	return c.base.Name() + "+" + c.enh.Name()
}

// Base returns the base side of the composition.
func (c *Composed) Base() Type {
	return c.base
}

// Enhancement returns the enhancement side of the composition.
func (c *Composed) Enhancement() Type {
	return c.enh
}

// Dependencies returns the combined dependency tokens: the base's
// tokens followed by the enhancement's tokens not already declared by
// the base.
func (c *Composed) Dependencies() []Token {
	return append([]Token(nil), c.combined...)
}

// New constructs a composed instance from values positionally aligned
// to the combined dependency tokens.  A base failure aborts before the
// enhancement is constructed; an enhancement failure discards the base
// instance.
func (c *Composed) New(args ...any) (any, error) {
	if len(args) != len(c.combined) {
		return nil, &ConstructionError{typ: c, reason: fmt.Errorf(
			"expected %d dependencies, received %d", len(c.combined), len(args))}
	}
	base, err := c.base.New(c.forBase(args)...)
	if err != nil {
		return nil, &ConstructionError{typ: c, reason: fmt.Errorf("base: %w", err)}
	}
	enh, err := c.enh.New(append([]any{base}, c.forEnh(args)...)...)
	if err != nil {
		c.log.Info("discarding base instance after enhancement failure",
			"type", c.Name(), "base", c.base.Name())
		return nil, &ConstructionError{typ: c, reason: fmt.Errorf("enhancement: %w", err)}
	}
	return newInstance(c, base, enh, c.log), nil
}

// Static resolves a type-level property.  The combined dependency
// tokens shadow any same-named static on either side; every other
// name falls through to the base.  The enhancement's statics are
// never exposed.
func (c *Composed) Static(name string) (*PropertyDescriptor, bool) {
	if name == DependenciesProperty {
		return &PropertyDescriptor{
			Name:       name,
			Value:      c.Dependencies(),
			Enumerable: true,
		}, true
	}
	return c.base.Static(name)
}

func (c *Composed) StaticKeys() []string {
	keys := []string{DependenciesProperty}
	for _, key := range c.base.StaticKeys() {
		if key != DependenciesProperty {
			keys = append(keys, key)
		}
	}
	return keys
}

func mergeOptions(into *Options, from Options) {
	if err := mergo.Merge(into, from, mergo.WithAppendSlice); err != nil {
		panic(err)
	}
}
