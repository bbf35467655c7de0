package ir

import (
	"testing"

	"github.com/panbanda/mood/pkg/classfile"
	"github.com/stretchr/testify/assert"
)

func TestAccessFromFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
		want  Access
		ok    bool
	}{
		{"public", classfile.AccPublic, Public, true},
		{"protected", classfile.AccProtected, Protected, true},
		{"private", classfile.AccPrivate, Private, true},
		{"package", 0, 0, false},
		{"public static", classfile.AccPublic | classfile.AccStatic, 0, false},
		{"public final", classfile.AccPublic | classfile.AccFinal, 0, false},
		{"private synthetic", classfile.AccPrivate | classfile.AccSynthetic, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AccessFromFlags(tt.flags)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLeastRestrictive(t *testing.T) {
	levels := []Access{Public, Protected, Private}
	for _, a := range levels {
		for _, b := range levels {
			got := LeastRestrictive(a, b)
			want := a
			if b.Rank() < a.Rank() {
				want = b
			}
			assert.Equal(t, want, got, "LeastRestrictive(%s, %s)", a, b)
			assert.Equal(t, got, LeastRestrictive(b, a), "LeastRestrictive must be symmetric")
		}
	}
}

func TestAccessString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "private", Private.String())
	assert.False(t, Public.IsHidden())
	assert.True(t, Protected.IsHidden())
	assert.True(t, Private.IsHidden())
}

func TestClassifyAccessor(t *testing.T) {
	tests := []struct {
		name, desc string
		kind       AccessorKind
		attr, typ  string
	}{
		{"getX", "()I", Getter, "x", "I"},
		{"getName", "()Ljava/lang/String;", Getter, "name", "Ljava/lang/String;"},
		{"getURL", "()[B", Getter, "url", "[B"},
		{"getNothing", "()V", Getter, "nothing", "V"},
		{"get", "()I", Getter, "", "I"},
		{"getX", "(I)I", NotAccessor, "", ""},
		{"setX", "(I)V", Setter, "x", "I"},
		{"setName", "(Ljava/lang/String;)V", Setter, "name", "Ljava/lang/String;"},
		{"setX", "(I)I", NotAccessor, "", ""},
		{"setX", "()V", NotAccessor, "", ""},
		{"setPair", "(Ljava/lang/String;I)V", NotAccessor, "", ""},
		{"foo", "()V", NotAccessor, "", ""},
		{"isReady", "()Z", NotAccessor, "", ""},
		{"getBroken", "(Q", NotAccessor, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name+tt.desc, func(t *testing.T) {
			kind, attr, typ := ClassifyAccessor(tt.name, tt.desc)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.attr, attr)
			assert.Equal(t, tt.typ, typ)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		role   MemberRole
	}{
		{"plain method", Member{"foo", classfile.AccPublic, "()V"}, AsMethod},
		{"getter", Member{"getX", classfile.AccPublic, "()I"}, AsAttribute},
		{"constructor", Member{"<init>", classfile.AccPublic, "()V"}, Dropped},
		{"static initializer", Member{"<clinit>", classfile.AccStatic, "()V"}, Dropped},
		{"package-private method", Member{"foo", 0, "()V"}, Dropped},
		{"package-private getter", Member{"getX", 0, "()I"}, Dropped},
		{"static method", Member{"of", classfile.AccPublic | classfile.AccStatic, "()V"}, Dropped},
		{"getter with params is a method", Member{"getAt", classfile.AccProtected, "(I)I"}, AsMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, method, attr := Classify(tt.member)
			assert.Equal(t, tt.role, role)
			switch role {
			case AsMethod:
				assert.Equal(t, tt.member.Name, method.Name)
				assert.Equal(t, tt.member.Descriptor, method.Descriptor)
			case AsAttribute:
				assert.NotEmpty(t, attr.Name)
			}
		})
	}
}
