package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberDeclMatchesParams(t *testing.T) {
	tests := []struct {
		name    string
		decl    []string
		cited   []string
		matches bool
	}{
		{
			name:    "exact match",
			decl:    []string{"String", "int"},
			cited:   []string{"String", "int"},
			matches: true,
		},
		{
			name:    "qualified declaration, simple citation",
			decl:    []string{"java.lang.String"},
			cited:   []string{"String"},
			matches: true,
		},
		{
			name:    "simple declaration, qualified citation",
			decl:    []string{"String"},
			cited:   []string{"java.lang.String"},
			matches: true,
		},
		{
			name:    "array dimensions must match",
			decl:    []string{"String[]"},
			cited:   []string{"String"},
			matches: false,
		},
		{
			name:    "qualified array matches simple array",
			decl:    []string{"java.lang.String[]"},
			cited:   []string{"String[]"},
			matches: true,
		},
		{
			name:    "arity mismatch",
			decl:    []string{"int"},
			cited:   []string{"int", "int"},
			matches: false,
		},
		{
			name:    "empty lists match",
			decl:    []string{},
			cited:   []string{},
			matches: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MemberDecl{Kind: MemberKindMethod, Params: tt.decl}
			assert.Equal(t, tt.matches, m.MatchesParams(tt.cited))
		})
	}
}

func TestMemberDeclIsConstant(t *testing.T) {
	tests := []struct {
		name string
		m    MemberDecl
		want bool
	}{
		{"static final field", MemberDecl{Kind: MemberKindField, Static: true, Final: true}, true},
		{"enum constant", MemberDecl{Kind: MemberKindEnumConst}, true},
		{"instance field", MemberDecl{Kind: MemberKindField, Final: true}, false},
		{"static mutable field", MemberDecl{Kind: MemberKindField, Static: true}, false},
		{"method", MemberDecl{Kind: MemberKindMethod, Static: true, Final: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.IsConstant())
		})
	}
}

func TestMemberDeclSignature(t *testing.T) {
	field := &MemberDecl{Name: "serialVersionUID", Kind: MemberKindField}
	assert.Equal(t, "serialVersionUID", field.Signature())

	method := &MemberDecl{Name: "add", Kind: MemberKindMethod, Params: []string{"int", "Object"}}
	assert.Equal(t, "add(int, Object)", method.Signature())

	noArgs := &MemberDecl{Name: "size", Kind: MemberKindMethod, Params: []string{}}
	assert.Equal(t, "size()", noArgs.Signature())
}
