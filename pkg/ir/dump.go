package ir

import (
	"bufio"
	"io"
	"strings"
)

// Dump writes the indented tree form of the IR:
//
//	IR
//		class <name> : <base>
//			attributes
//				<access> <name>: <type>
//			methods
//				<access> <name>: <descriptor>
func (r *IR) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("IR\n")
	for _, c := range r.Classes() {
		c.dump(bw, 1)
	}
	return bw.Flush()
}

// String returns the Dump output.
func (r *IR) String() string {
	var sb strings.Builder
	r.Dump(&sb)
	return sb.String()
}

func (c *Class) dump(w *bufio.Writer, depth int) {
	line := func(d int, s string) {
		w.WriteString(strings.Repeat("\t", d))
		w.WriteString(s)
		w.WriteByte('\n')
	}
	line(depth, "class "+c.Name+" : "+c.BaseClassName)
	line(depth+1, "attributes")
	for _, a := range c.Attributes {
		line(depth+2, a.String())
	}
	line(depth+1, "methods")
	for _, m := range c.Methods {
		line(depth+2, m.String())
	}
}
