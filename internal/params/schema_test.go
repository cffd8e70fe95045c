package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		decl string
		kind Kind
		rule string
	}{
		{decl: "string", kind: String()},
		{decl: "STRING", kind: String()},
		{decl: "uint16", kind: Unsigned(16)},
		{decl: " uint8 ", kind: Unsigned(8)},
		{decl: "uint64", kind: Unsigned(64)},
		{decl: "int32", kind: Signed(32)},
		{decl: "uint16:max=1000", kind: Unsigned(16), rule: "max=1000"},
		{decl: "string: alphanum,max=32", kind: String(), rule: "alphanum,max=32"},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			kind, rule, err := ParseKind(tt.decl)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestParseKind_Invalid(t *testing.T) {
	for _, decl := range []string{"", "float", "uint", "uint0", "uint65", "int128", "uintx", "bool", "uint+16", "uint016", "int-8", "uint 16", "int_32"} {
		t.Run(decl, func(t *testing.T) {
			_, _, err := ParseKind(decl)
			assert.Error(t, err)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "string", String().String())
	assert.Equal(t, "uint16", Unsigned(16).String())
	assert.Equal(t, "int64", Signed(64).String())
	assert.Equal(t, "invalid", Kind{}.String())
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(
		Field{Name: "id", Kind: Unsigned(16)},
		Field{Name: "name", Kind: String(), Rule: "max=10"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	f, ok := s.Lookup("name")
	assert.True(t, ok)
	assert.Equal(t, "max=10", f.Rule)
	_, ok = s.Lookup("missing")
	assert.False(t, ok)

	fields := s.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "id", fields[0].Name)
	assert.Equal(t, "name", fields[1].Name)
}

func TestNewSchema_Errors(t *testing.T) {
	tests := map[string][]Field{
		"empty name":   {{Name: "", Kind: String()}},
		"duplicate":    {{Name: "id", Kind: String()}, {Name: "id", Kind: Unsigned(8)}},
		"zero bits":    {{Name: "id", Kind: Unsigned(0)}},
		"too wide":     {{Name: "id", Kind: Signed(65)}},
		"no kind":      {{Name: "id"}},
		"unknown rule": {{Name: "id", Kind: String(), Rule: "definitely_not_a_tag"}},
	}

	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewSchema(fields...)
			assert.Error(t, err)
		})
	}
}

func TestNewSchema_Empty(t *testing.T) {
	s, err := NewSchema()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	values, err := Validate(s, ParseQuery("id=1"))
	require.NoError(t, err)
	assert.Equal(t, 0, values.Len())
}

func TestSchema_NilAccessors(t *testing.T) {
	var s *Schema

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Fields())

	_, ok := s.Lookup("id")
	assert.False(t, ok)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		decl string
		want Field
	}{
		{decl: "uint16", want: Field{Name: "p", Kind: Unsigned(16)}},
		{decl: "uint16:required", want: Field{Name: "p", Kind: Unsigned(16), Required: true}},
		{decl: "uint8:required,min=1", want: Field{Name: "p", Kind: Unsigned(8), Rule: "min=1", Required: true}},
		{decl: "string:alphanum, required ,max=4", want: Field{Name: "p", Kind: String(), Rule: "alphanum,max=4", Required: true}},
		{decl: "string:oneof=asc desc", want: Field{Name: "p", Kind: String(), Rule: "oneof=asc desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			got, err := ParseField("p", tt.decl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseField("p", "uint+16:required")
	assert.Error(t, err)
}

func TestSchema_Required(t *testing.T) {
	s, err := NewSchema(
		Field{Name: "b", Kind: String(), Required: true},
		Field{Name: "a", Kind: Unsigned(8)},
		Field{Name: "c", Kind: Signed(8), Required: true},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, s.Required())

	// a missing required parameter is not a rejection
	values, err := Validate(s, ParseQuery("a=1"))
	require.NoError(t, err)
	assert.Empty(t, values.Rejections())
}
