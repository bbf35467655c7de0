package ir

import (
	"github.com/cespare/xxhash/v2"
)

// MemberKey is the identity of a method or attribute: name, access level and
// descriptor together. Two members are the same only if all three match, so
// an override that changes visibility is a different member.
type MemberKey struct {
	Name       string
	Access     Access
	Descriptor string
}

// Equal reports whether k and o denote the same member.
func (k MemberKey) Equal(o MemberKey) bool {
	return k.Name == o.Name && k.Access == o.Access && k.Descriptor == o.Descriptor
}

// Hash returns a 64-bit hash consistent with Equal.
func (k MemberKey) Hash() uint64 {
	d := xxhash.New()
	d.WriteString(k.Name)
	d.Write([]byte{0, byte(k.Access), 0})
	d.WriteString(k.Descriptor)
	return d.Sum64()
}

// MemberSet is a set of member keys bucketed by Hash and resolved by Equal.
// The zero value is not usable; call NewMemberSet.
type MemberSet struct {
	buckets map[uint64][]MemberKey
	size    int
}

// NewMemberSet returns a set holding keys.
func NewMemberSet(keys ...MemberKey) *MemberSet {
	s := &MemberSet{buckets: make(map[uint64][]MemberKey, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts k and reports whether it was absent.
func (s *MemberSet) Add(k MemberKey) bool {
	h := k.Hash()
	for _, e := range s.buckets[h] {
		if e.Equal(k) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], k)
	s.size++
	return true
}

// Contains reports whether k is in the set.
func (s *MemberSet) Contains(k MemberKey) bool {
	for _, e := range s.buckets[k.Hash()] {
		if e.Equal(k) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct keys.
func (s *MemberSet) Len() int {
	return s.size
}

// Each calls fn for every key in unspecified order.
func (s *MemberSet) Each(fn func(MemberKey)) {
	for _, bucket := range s.buckets {
		for _, k := range bucket {
			fn(k)
		}
	}
}

// CountMissingFrom returns how many keys of s are absent from other.
func (s *MemberSet) CountMissingFrom(other *MemberSet) int {
	n := 0
	s.Each(func(k MemberKey) {
		if !other.Contains(k) {
			n++
		}
	})
	return n
}

// CountShared returns how many keys of s are also in other.
func (s *MemberSet) CountShared(other *MemberSet) int {
	return s.Len() - s.CountMissingFrom(other)
}

// MethodKeys returns the keys of methods.
func MethodKeys(methods []Method) []MemberKey {
	keys := make([]MemberKey, len(methods))
	for i, m := range methods {
		keys[i] = m.Key()
	}
	return keys
}

// AttributeKeys returns the keys of attributes.
func AttributeKeys(attrs []Attribute) []MemberKey {
	keys := make([]MemberKey, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key()
	}
	return keys
}
