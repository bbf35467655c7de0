package ir

import (
	"io"
	"log/slog"

	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/pkg/classfile"
	"github.com/panbanda/mood/pkg/source"
)

// Introspector turns one class file into a Class.
type Introspector struct {
	src    source.ClassSource
	cache  *cache.Cache
	logger *slog.Logger
}

// IntrospectorOption configures an Introspector.
type IntrospectorOption func(*Introspector)

// WithCache reuses previously introspected classes with identical bytes.
func WithCache(c *cache.Cache) IntrospectorOption {
	return func(in *Introspector) {
		in.cache = c
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) IntrospectorOption {
	return func(in *Introspector) {
		if l != nil {
			in.logger = l
		}
	}
}

// NewIntrospector creates an introspector reading from src.
func NewIntrospector(src source.ClassSource, opts ...IntrospectorOption) *Introspector {
	in := &Introspector{
		src:    src,
		cache:  cache.Disabled(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Introspect reads the named class and derives its name, base class,
// methods and attributes in a single pass over the method table.
func (in *Introspector) Introspect(className string) (*Class, error) {
	data, err := in.src.Read(className)
	if err != nil {
		return nil, &LookupError{ClassName: className, Err: err}
	}

	key := cache.Key(data)
	var cached Class
	if in.cache.Load(key, &cached) {
		in.logger.Debug("cache hit", "class", cached.Name)
		return &cached, nil
	}

	cf, err := classfile.Parse(data)
	if err != nil {
		return nil, &LookupError{ClassName: className, Err: err}
	}

	members := make([]Member, len(cf.Methods))
	for i, m := range cf.Methods {
		members[i] = Member{Name: m.Name, AccessFlags: m.AccessFlags, Descriptor: m.Descriptor}
	}
	cls, err := in.Synthesize(cf.ThisClass, cf.SuperClass, members)
	if err != nil {
		return nil, err
	}

	if err := in.cache.Store(key, cls); err != nil {
		in.logger.Warn("cache store failed", "class", cls.Name, "error", err)
	}
	return cls, nil
}

// Synthesize applies the member rules to a method table.
func (in *Introspector) Synthesize(name, base string, members []Member) (*Class, error) {
	cls := &Class{Name: name, BaseClassName: base, Attributes: []Attribute{}, Methods: []Method{}}
	index := make(map[string]int)

	for _, m := range members {
		role, method, attr := Classify(m)
		switch role {
		case Dropped:
			in.logger.Debug("member dropped", "class", name, "member", m.Name, "flags", m.AccessFlags)
		case AsMethod:
			cls.Methods = append(cls.Methods, method)
		case AsAttribute:
			i, seen := index[attr.Name]
			if !seen {
				index[attr.Name] = len(cls.Attributes)
				cls.Attributes = append(cls.Attributes, attr)
				continue
			}
			existing := &cls.Attributes[i]
			if existing.TypeDescriptor != attr.TypeDescriptor {
				return nil, &AttributeConflictError{
					Class:     name,
					Attribute: attr.Name,
					Existing:  existing.TypeDescriptor,
					Conflict:  attr.TypeDescriptor,
					Accessor:  m.Name + m.Descriptor,
				}
			}
			existing.Access = LeastRestrictive(existing.Access, attr.Access)
		}
	}

	in.logger.Debug("class introspected", "class", name,
		"methods", len(cls.Methods), "attributes", len(cls.Attributes))
	return cls, nil
}
