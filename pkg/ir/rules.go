package ir

import (
	"strings"

	"github.com/panbanda/mood/pkg/classfile"
)

const (
	getterPrefix = "get"
	setterPrefix = "set"
)

// AccessFromFlags maps raw access flags to a level. Only flags that are
// exactly public, protected or private are recognized; anything else
// (package-private, or a visibility combined with static, final, synthetic
// and so on) reports false and the member is left out of the IR.
func AccessFromFlags(flags uint16) (Access, bool) {
	switch flags {
	case classfile.AccPublic:
		return Public, true
	case classfile.AccProtected:
		return Protected, true
	case classfile.AccPrivate:
		return Private, true
	default:
		return 0, false
	}
}

// AccessorKind classifies a method by accessor shape.
type AccessorKind int

const (
	NotAccessor AccessorKind = iota
	Getter
	Setter
)

func (k AccessorKind) String() string {
	switch k {
	case Getter:
		return "getter"
	case Setter:
		return "setter"
	default:
		return "method"
	}
}

// ClassifyAccessor recognizes getter and setter shapes and returns the
// synthesized attribute name and type.
//
//	getX()T   -> getter, attribute "x" of type T
//	setX(T)V  -> setter, attribute "x" of type T
func ClassifyAccessor(name, descriptor string) (kind AccessorKind, attrName, attrType string) {
	isGet := strings.HasPrefix(name, getterPrefix)
	isSet := strings.HasPrefix(name, setterPrefix)
	if !isGet && !isSet {
		return NotAccessor, "", ""
	}
	md, err := classfile.ParseMethodDescriptor(descriptor)
	if err != nil {
		return NotAccessor, "", ""
	}
	attrName = strings.ToLower(name[len(getterPrefix):])
	switch {
	case isGet && len(md.Params) == 0:
		return Getter, attrName, md.Return
	case isSet && len(md.Params) == 1 && md.IsVoid():
		return Setter, attrName, md.Params[0]
	default:
		return NotAccessor, "", ""
	}
}

// Member is one entry of a class's method table.
type Member struct {
	Name        string
	AccessFlags uint16
	Descriptor  string
}

// MemberRole says where a method-table entry ends up in the IR.
type MemberRole int

const (
	// Dropped members appear nowhere: unrecognized access or a constructor.
	Dropped MemberRole = iota
	// AsMethod members are plain methods.
	AsMethod
	// AsAttribute members are represented only by their synthesized attribute.
	AsAttribute
)

// Classify decides the role of a method-table entry and returns the
// resulting method or attribute.
func Classify(m Member) (MemberRole, Method, Attribute) {
	access, ok := AccessFromFlags(m.AccessFlags)
	if !ok {
		return Dropped, Method{}, Attribute{}
	}
	if kind, attrName, attrType := ClassifyAccessor(m.Name, m.Descriptor); kind != NotAccessor {
		return AsAttribute, Method{}, Attribute{Name: attrName, Access: access, TypeDescriptor: attrType}
	}
	if m.Name == classfile.ConstructorName {
		return Dropped, Method{}, Attribute{}
	}
	return AsMethod, Method{Name: m.Name, Access: access, Descriptor: m.Descriptor}, Attribute{}
}
