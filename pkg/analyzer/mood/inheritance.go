package mood

import "github.com/panbanda/mood/pkg/ir"

// InheritanceMetrics counts how a class's declared members relate to the
// members it inherits. Members compare by name, access and descriptor.
type InheritanceMetrics struct {
	// NewCount is the number of declared members absent from the inherited set.
	NewCount int `json:"new"`
	// OverriddenCount is the number of declared members present in the inherited set.
	OverriddenCount int `json:"overridden"`
	// InheritedNotOverriddenCount is the number of inherited members the class does not redeclare.
	InheritedNotOverriddenCount int `json:"inherited"`
}

// Available is the total of all three counts.
func (m InheritanceMetrics) Available() int {
	return m.NewCount + m.OverriddenCount + m.InheritedNotOverriddenCount
}

func compareMembers(declared, inherited *ir.MemberSet) InheritanceMetrics {
	return InheritanceMetrics{
		NewCount:                    declared.CountMissingFrom(inherited),
		OverriddenCount:             declared.CountShared(inherited),
		InheritedNotOverriddenCount: inherited.CountMissingFrom(declared),
	}
}

// MethodInheritance computes the method metrics of c.
func (res *Resolver) MethodInheritance(c *ir.Class) InheritanceMetrics {
	return compareMembers(ir.NewMemberSet(ir.MethodKeys(c.Methods)...), res.InheritedMethods(c))
}

// AttributeInheritance computes the attribute metrics of c.
func (res *Resolver) AttributeInheritance(c *ir.Class) InheritanceMetrics {
	return compareMembers(ir.NewMemberSet(ir.AttributeKeys(c.Attributes)...), res.InheritedAttributes(c))
}
