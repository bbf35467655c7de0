package testutil

import (
	"bytes"
	"encoding/binary"
)

// Access flags used by fixtures.
const (
	Public    uint16 = 0x0001
	Private   uint16 = 0x0002
	Protected uint16 = 0x0004
	Static    uint16 = 0x0008
	Final     uint16 = 0x0010
	Synthetic uint16 = 0x1000
	Package   uint16 = 0x0000
)

type member struct {
	flags      uint16
	name       string
	descriptor string
}

// ClassBuilder assembles a minimal but valid class file.
type ClassBuilder struct {
	Name    string
	Super   string
	fields  []member
	methods []member
}

// NewClass starts a class with the given internal name and super class.
// An empty super produces a root class (super_class = 0).
func NewClass(name, super string) *ClassBuilder {
	return &ClassBuilder{Name: name, Super: super}
}

// Method adds a method entry.
func (b *ClassBuilder) Method(flags uint16, name, descriptor string) *ClassBuilder {
	b.methods = append(b.methods, member{flags, name, descriptor})
	return b
}

// Field adds a field entry.
func (b *ClassBuilder) Field(flags uint16, name, descriptor string) *ClassBuilder {
	b.fields = append(b.fields, member{flags, name, descriptor})
	return b
}

// Getter adds "get<Prop>()<typ>".
func (b *ClassBuilder) Getter(flags uint16, prop, typ string) *ClassBuilder {
	return b.Method(flags, "get"+prop, "()"+typ)
}

// Setter adds a setter "set<Prop>(<typ>)V".
func (b *ClassBuilder) Setter(flags uint16, prop, typ string) *ClassBuilder {
	return b.Method(flags, "set"+prop, "("+typ+")V")
}

type pool struct {
	buf     bytes.Buffer
	count   uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, utf8s: map[string]uint16{}, classes: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	p.buf.WriteByte(1)
	binary.Write(&p.buf, binary.BigEndian, uint16(len(s)))
	p.buf.WriteString(s)
	idx := p.count
	p.count++
	p.utf8s[s] = idx
	return idx
}

func (p *pool) class(name string) uint16 {
	if idx, ok := p.classes[name]; ok {
		return idx
	}
	nameIdx := p.utf8(name)
	p.buf.WriteByte(7)
	binary.Write(&p.buf, binary.BigEndian, nameIdx)
	idx := p.count
	p.count++
	p.classes[name] = idx
	return idx
}

// long adds an 8-byte constant occupying two pool slots.
func (p *pool) long(v int64) {
	p.buf.WriteByte(5)
	binary.Write(&p.buf, binary.BigEndian, v)
	p.count += 2
}

// Bytes encodes the class file.
func (b *ClassBuilder) Bytes() []byte {
	p := newPool()
	// A Long constant exercises the two-slot rule in readers.
	p.long(42)
	thisIdx := p.class(b.Name)
	var superIdx uint16
	if b.Super != "" {
		superIdx = p.class(b.Super)
	}
	code := p.utf8("Code")

	type encoded struct {
		flags, name, desc uint16
	}
	encode := func(ms []member) []encoded {
		out := make([]encoded, len(ms))
		for i, m := range ms {
			out[i] = encoded{m.flags, p.utf8(m.name), p.utf8(m.descriptor)}
		}
		return out
	}
	fields := encode(b.fields)
	methods := encode(b.methods)

	var out bytes.Buffer
	w := func(v any) { binary.Write(&out, binary.BigEndian, v) }
	w(uint32(0xCAFEBABE))
	w(uint16(0))  // minor
	w(uint16(52)) // major (Java 8)
	w(p.count)
	out.Write(p.buf.Bytes())
	w(Public)
	w(thisIdx)
	w(superIdx)
	w(uint16(0)) // interfaces
	w(uint16(len(fields)))
	for _, f := range fields {
		w(f.flags)
		w(f.name)
		w(f.desc)
		w(uint16(0))
	}
	w(uint16(len(methods)))
	for _, m := range methods {
		w(m.flags)
		w(m.name)
		w(m.desc)
		// One opaque Code attribute so readers must skip by length.
		w(uint16(1))
		w(code)
		w(uint32(3))
		out.Write([]byte{0xB1, 0x00, 0x00})
	}
	w(uint16(0)) // class attributes
	return out.Bytes()
}
