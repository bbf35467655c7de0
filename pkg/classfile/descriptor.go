package classfile

import (
	"errors"
	"fmt"
	"strings"
)

// Access flags shared by classes, fields and methods.
const (
	AccPublic       uint16 = 0x0001
	AccPrivate      uint16 = 0x0002
	AccProtected    uint16 = 0x0004
	AccStatic       uint16 = 0x0008
	AccFinal        uint16 = 0x0010
	AccSynchronized uint16 = 0x0020
	AccBridge       uint16 = 0x0040
	AccVarargs      uint16 = 0x0080
	AccNative       uint16 = 0x0100
	AccInterface    uint16 = 0x0200
	AccAbstract     uint16 = 0x0400
	AccStrict       uint16 = 0x0800
	AccSynthetic    uint16 = 0x1000
	AccAnnotation   uint16 = 0x2000
	AccEnum         uint16 = 0x4000
)

// Special method names.
const (
	ConstructorName       = "<init>"
	StaticInitializerName = "<clinit>"
)

// ErrBadDescriptor is returned for malformed method or field descriptors.
var ErrBadDescriptor = errors.New("classfile: bad descriptor")

// MethodDescriptor is a parsed "(params)return" descriptor.
type MethodDescriptor struct {
	Params []string
	Return string
}

// IsVoid reports whether the method returns void.
func (d MethodDescriptor) IsVoid() bool {
	return d.Return == "V"
}

// ParseMethodDescriptor splits a method descriptor into its parameter and
// return field types, e.g. "(ILjava/lang/String;)V" -> [I Ljava/lang/String;], V.
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if !strings.HasPrefix(desc, "(") {
		return MethodDescriptor{}, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
	}
	var md MethodDescriptor
	i := 1
	for i < len(desc) && desc[i] != ')' {
		n, err := fieldTypeLen(desc[i:])
		if err != nil {
			return MethodDescriptor{}, fmt.Errorf("%w: %q", err, desc)
		}
		md.Params = append(md.Params, desc[i:i+n])
		i += n
	}
	if i >= len(desc) {
		return MethodDescriptor{}, fmt.Errorf("%w: unterminated parameters in %q", ErrBadDescriptor, desc)
	}
	ret := desc[i+1:]
	if ret == "V" {
		md.Return = ret
		return md, nil
	}
	n, err := fieldTypeLen(ret)
	if err != nil || n != len(ret) {
		return MethodDescriptor{}, fmt.Errorf("%w: bad return type in %q", ErrBadDescriptor, desc)
	}
	md.Return = ret
	return md, nil
}

// fieldTypeLen returns the length of the field type at the start of s.
func fieldTypeLen(s string) (int, error) {
	i := 0
	for i < len(s) && s[i] == '[' {
		i++
	}
	if i >= len(s) {
		return 0, ErrBadDescriptor
	}
	switch s[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return i + 1, nil
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end <= 1 {
			return 0, ErrBadDescriptor
		}
		return i + end + 1, nil
	default:
		return 0, ErrBadDescriptor
	}
}

// InternalName converts a dotted binary name (com.example.Base) to the
// internal form used inside class files (com/example/Base).
func InternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// BinaryName converts an internal name to its dotted form.
func BinaryName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
