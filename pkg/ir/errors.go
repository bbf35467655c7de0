package ir

import (
	"errors"
	"fmt"
)

var (
	// ErrAttributeTypeMismatch is returned when accessors of one synthesized
	// attribute disagree on its type. The class data is malformed.
	ErrAttributeTypeMismatch = errors.New("attribute type mismatch")

	// ErrUnresolvableClass is returned when a requested class cannot be read or parsed.
	ErrUnresolvableClass = errors.New("unresolvable class")
)

// AttributeConflictError describes an accessor type disagreement.
type AttributeConflictError struct {
	Class     string
	Attribute string
	Existing  string
	Conflict  string
	Accessor  string
}

func (e *AttributeConflictError) Error() string {
	return fmt.Sprintf("%s: attribute %q has type %s but accessor %s uses %s",
		e.Class, e.Attribute, e.Existing, e.Accessor, e.Conflict)
}

// Unwrap lets errors.Is match ErrAttributeTypeMismatch.
func (e *AttributeConflictError) Unwrap() error {
	return ErrAttributeTypeMismatch
}

// LookupError reports a class that could not be resolved.
type LookupError struct {
	ClassName string
	Err       error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("resolve class %s: %v", e.ClassName, e.Err)
}

// Unwrap returns the cause; errors.Is also matches ErrUnresolvableClass.
func (e *LookupError) Unwrap() []error {
	return []error{ErrUnresolvableClass, e.Err}
}
