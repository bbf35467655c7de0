// Package ir defines the structural intermediate representation of a set of
// compiled classes and the introspector that derives it from class files.
package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Access is a member visibility level. The zero value is Public; a lower
// rank is less restrictive.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

// Rank returns the restrictiveness of the level: 0 (public) to 2 (private).
func (a Access) Rank() int {
	return int(a)
}

// String returns the lower-case keyword of the level.
func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// IsHidden reports whether the level is not public.
func (a Access) IsHidden() bool {
	return a != Public
}

// MarshalJSON encodes the level as its keyword.
func (a Access) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a keyword produced by MarshalJSON.
func (a *Access) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "public":
		*a = Public
	case "protected":
		*a = Protected
	case "private":
		*a = Private
	default:
		return fmt.Errorf("unknown access level %q", s)
	}
	return nil
}

// LeastRestrictive returns the less restrictive of a and b.
func LeastRestrictive(a, b Access) Access {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}

// Attribute is a logical attribute synthesized from accessor methods.
type Attribute struct {
	Name           string `json:"name"`
	Access         Access `json:"access"`
	TypeDescriptor string `json:"type"`
}

// Key returns the identity of the attribute for set operations.
func (a Attribute) Key() MemberKey {
	return MemberKey{Name: a.Name, Access: a.Access, Descriptor: a.TypeDescriptor}
}

func (a Attribute) String() string {
	return fmt.Sprintf("%s %s: %s", a.Access, a.Name, a.TypeDescriptor)
}

// Method is a declared, non-accessor, non-constructor method.
type Method struct {
	Name       string `json:"name"`
	Access     Access `json:"access"`
	Descriptor string `json:"descriptor"`
}

// Key returns the identity of the method for set operations.
func (m Method) Key() MemberKey {
	return MemberKey{Name: m.Name, Access: m.Access, Descriptor: m.Descriptor}
}

func (m Method) String() string {
	return fmt.Sprintf("%s %s: %s", m.Access, m.Name, m.Descriptor)
}

// Class is one analyzed class.
type Class struct {
	Name          string `json:"name"`
	BaseClassName string `json:"base_class"`
	// Attributes are unique by name, in order of first accessor sighting.
	Attributes []Attribute `json:"attributes"`
	// Methods are in declaration order; duplicates by signature are kept.
	Methods []Method `json:"methods"`
}

// Attribute looks up a declared attribute by name.
func (c *Class) Attribute(name string) (Attribute, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// IR is the immutable, name-keyed registry of analyzed classes.
type IR struct {
	order   []string
	classes map[string]*Class
}

// New builds an IR from classes. Later classes with an already seen name
// are ignored, so the first occurrence wins. Builder.Build logs such drops.
func New(classes ...*Class) *IR {
	r := &IR{classes: make(map[string]*Class, len(classes))}
	for _, c := range classes {
		if _, dup := r.classes[c.Name]; dup {
			continue
		}
		r.order = append(r.order, c.Name)
		r.classes[c.Name] = c
	}
	return r
}

// Len returns the number of classes.
func (r *IR) Len() int {
	return len(r.order)
}

// Lookup returns the class with the given internal name.
func (r *IR) Lookup(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Names returns the class names in input order.
func (r *IR) Names() []string {
	return append([]string(nil), r.order...)
}

// Classes returns the classes in input order.
func (r *IR) Classes() []*Class {
	out := make([]*Class, len(r.order))
	for i, name := range r.order {
		out[i] = r.classes[name]
	}
	return out
}

// MarshalJSON encodes the IR as an ordered list of classes.
func (r *IR) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Classes []*Class `json:"classes"`
	}{r.Classes()})
}
