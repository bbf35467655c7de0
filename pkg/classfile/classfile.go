// Package classfile reads the parts of a compiled JVM class file needed for
// structural analysis: the constant pool, this/super class names, and the
// field and method tables. Bytecode and attributes are skipped.
package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the four-byte header of every class file.
const Magic = 0xCAFEBABE

var (
	// ErrBadMagic is returned when the data does not start with 0xCAFEBABE.
	ErrBadMagic = errors.New("classfile: bad magic")
	// ErrTruncated is returned when the data ends before a structure is complete.
	ErrTruncated = errors.New("classfile: truncated data")
	// ErrBadConstant is returned for unknown tags or references of the wrong kind.
	ErrBadConstant = errors.New("classfile: bad constant pool entry")
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Member is a field or method entry.
type Member struct {
	AccessFlags uint16 `json:"access_flags"`
	Name        string `json:"name"`
	Descriptor  string `json:"descriptor"`
}

// ClassFile holds the decoded structure.
type ClassFile struct {
	MinorVersion uint16   `json:"minor_version"`
	MajorVersion uint16   `json:"major_version"`
	AccessFlags  uint16   `json:"access_flags"`
	ThisClass    string   `json:"this_class"`
	SuperClass   string   `json:"super_class"` // empty for java/lang/Object and module-info
	Interfaces   []string `json:"interfaces,omitempty"`
	Fields       []Member `json:"fields,omitempty"`
	Methods      []Member `json:"methods,omitempty"`
}

type constant struct {
	tag   byte
	utf8  string
	index uint16 // Class, String, MethodType, Module, Package: name/descriptor index
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) u1() (byte, error) {
	if r.off+1 > len(r.data) {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncated, r.off)
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *reader) u2() (uint16, error) {
	if r.off+2 > len(r.data) {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncated, r.off)
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u4() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncated, r.off)
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) skip(n int) error {
	if n < 0 || r.off+n > len(r.data) {
		return fmt.Errorf("%w at offset %d", ErrTruncated, r.off)
	}
	r.off += n
	return nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	start := r.off
	if err := r.skip(n); err != nil {
		return nil, err
	}
	return r.data[start:r.off], nil
}

// Parse decodes a class file.
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{data: data}

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.u2(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.u2(); err != nil {
		return nil, err
	}

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	if cf.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}

	thisIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	if cf.ThisClass, err = pool.className(thisIdx); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}

	superIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	if superIdx != 0 {
		if cf.SuperClass, err = pool.className(superIdx); err != nil {
			return nil, fmt.Errorf("super_class: %w", err)
		}
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		name, err := pool.className(idx)
		if err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		cf.Interfaces = append(cf.Interfaces, name)
	}

	if cf.Fields, err = readMembers(r, pool); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, pool); err != nil {
		return nil, fmt.Errorf("methods: %w", err)
	}

	return cf, nil
}

type constantPool []constant

func readConstantPool(r *reader) (constantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	pool := make(constantPool, count)

	// Index 0 is unused; Long and Double take two slots.
	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		c := constant{tag: tag}
		switch tag {
		case tagUtf8:
			n, err := r.u2()
			if err != nil {
				return nil, err
			}
			b, err := r.bytes(int(n))
			if err != nil {
				return nil, err
			}
			if c.utf8, err = decodeModifiedUTF8(b); err != nil {
				return nil, fmt.Errorf("constant %d: %w", i, err)
			}
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			if c.index, err = r.u2(); err != nil {
				return nil, err
			}
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			if err := r.skip(4); err != nil {
				return nil, err
			}
		case tagLong, tagDouble:
			if err := r.skip(8); err != nil {
				return nil, err
			}
			pool[i] = c
			i++
			continue
		case tagMethodHandle:
			if err := r.skip(3); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unknown tag %d at index %d", ErrBadConstant, tag, i)
		}
		pool[i] = c
	}
	return pool, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(p) || p[idx].tag != tagUtf8 {
		return "", fmt.Errorf("%w: index %d is not Utf8", ErrBadConstant, idx)
	}
	return p[idx].utf8, nil
}

func (p constantPool) className(idx uint16) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(p) || p[idx].tag != tagClass {
		return "", fmt.Errorf("%w: index %d is not Class", ErrBadConstant, idx)
	}
	return p.utf8(p[idx].index)
}

func readMembers(r *reader, pool constantPool) ([]Member, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, count)
	for i := 0; i < int(count); i++ {
		var m Member
		if m.AccessFlags, err = r.u2(); err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		if m.Name, err = pool.utf8(nameIdx); err != nil {
			return nil, err
		}
		if m.Descriptor, err = pool.utf8(descIdx); err != nil {
			return nil, err
		}
		if err := skipAttributes(r); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func skipAttributes(r *reader) error {
	count, err := r.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := r.u2(); err != nil {
			return err
		}
		n, err := r.u4()
		if err != nil {
			return err
		}
		if err := r.skip(int(n)); err != nil {
			return err
		}
	}
	return nil
}
