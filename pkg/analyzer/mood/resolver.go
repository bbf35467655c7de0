package mood

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/mood/pkg/ir"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrInheritanceCycle is returned when base-class links inside the IR form a cycle.
var ErrInheritanceCycle = errors.New("inheritance cycle")

// CycleError lists the classes taking part in one cycle.
type CycleError struct {
	Classes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInheritanceCycle, strings.Join(e.Classes, " -> "))
}

// Unwrap lets errors.Is match ErrInheritanceCycle.
func (e *CycleError) Unwrap() error {
	return ErrInheritanceCycle
}

// Resolver walks ancestor chains within an IR.
type Resolver struct {
	ir      *ir.IR
	classes []*ir.Class
	index   map[string]uint32
	// descendants[i] holds the indexes of classes whose ancestor chain contains class i.
	descendants []*roaring.Bitmap
}

// NewResolver indexes r. It fails if the hierarchy contains a cycle.
func NewResolver(r *ir.IR) (*Resolver, error) {
	res := &Resolver{
		ir:      r,
		classes: r.Classes(),
		index:   make(map[string]uint32, r.Len()),
	}
	for i, c := range res.classes {
		res.index[c.Name] = uint32(i)
	}
	if err := res.checkAcyclic(); err != nil {
		return nil, err
	}

	res.descendants = make([]*roaring.Bitmap, len(res.classes))
	for i := range res.descendants {
		res.descendants[i] = roaring.New()
	}
	for i, c := range res.classes {
		for anc := range res.Ancestors(c) {
			res.descendants[res.index[anc.Name]].Add(uint32(i))
		}
	}
	return res, nil
}

// checkAcyclic finds base-class cycles with Tarjan's SCC on the child->base graph.
func (res *Resolver) checkAcyclic() error {
	g := simple.NewDirectedGraph()
	for i := range res.classes {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, c := range res.classes {
		j, ok := res.index[c.BaseClassName]
		if !ok {
			continue
		}
		if int(j) == i {
			return &CycleError{Classes: []string{c.Name, c.Name}}
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		names := make([]string, 0, len(scc)+1)
		for _, n := range scc {
			names = append(names, res.classes[n.ID()].Name)
		}
		names = append(names, names[0])
		return &CycleError{Classes: names}
	}
	return nil
}

// Ancestors yields the ancestors of c that are present in the IR, starting
// with the immediate base class. The sequence ends at the first base name
// that is not in the IR. It can be iterated any number of times.
func (res *Resolver) Ancestors(c *ir.Class) iter.Seq[*ir.Class] {
	return func(yield func(*ir.Class) bool) {
		visited := map[string]bool{c.Name: true}
		cur, ok := res.ir.Lookup(c.BaseClassName)
		for ok && !visited[cur.Name] {
			if !yield(cur) {
				return
			}
			visited[cur.Name] = true
			cur, ok = res.ir.Lookup(cur.BaseClassName)
		}
	}
}

// InheritedMethods returns the union of non-private methods declared by all ancestors of c.
func (res *Resolver) InheritedMethods(c *ir.Class) *ir.MemberSet {
	set := ir.NewMemberSet()
	for anc := range res.Ancestors(c) {
		for _, m := range anc.Methods {
			if m.Access != ir.Private {
				set.Add(m.Key())
			}
		}
	}
	return set
}

// InheritedAttributes returns the union of non-private attributes declared by all ancestors of c.
func (res *Resolver) InheritedAttributes(c *ir.Class) *ir.MemberSet {
	set := ir.NewMemberSet()
	for anc := range res.Ancestors(c) {
		for _, a := range anc.Attributes {
			if a.Access != ir.Private {
				set.Add(a.Key())
			}
		}
	}
	return set
}

// DescendantCount returns how many classes of the IR have c among their ancestors.
func (res *Resolver) DescendantCount(c *ir.Class) int {
	i, ok := res.index[c.Name]
	if !ok {
		return 0
	}
	return int(res.descendants[i].GetCardinality())
}

// Descendants returns the names of the classes that have c among their ancestors, in IR order.
func (res *Resolver) Descendants(c *ir.Class) []string {
	i, ok := res.index[c.Name]
	if !ok {
		return nil
	}
	var names []string
	it := res.descendants[i].Iterator()
	for it.HasNext() {
		names = append(names, res.classes[it.Next()].Name)
	}
	return names
}
