// Package params implements allow-list extraction of typed request parameters.
//
// A Schema declares which parameter names a route accepts and what kind of
// value each one carries. Validate takes the raw name/value pairs of a query
// string and returns only the declared parameters that could be coerced into
// their declared kind:
//   - names that are not declared are dropped without an error
//   - declared names that are missing are simply absent from the result
//   - declared names whose value cannot be coerced are recorded as rejections
//
// Nothing in this package performs I/O or keeps mutable state, so a Schema can
// be shared by every request goroutine once it has been built.
package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Type is the family of a declared parameter.
type Type uint8

const (
	TypeString Type = iota + 1
	TypeUnsigned
	TypeSigned
)

// Kind is the declared type of a parameter.
//
// Bits is only meaningful for TypeUnsigned and TypeSigned and must be in
// the range 1..64.
type Kind struct {
	Type Type
	Bits int
}

// String returns the kind for a free-form string parameter.
func String() Kind {
	return Kind{Type: TypeString}
}

// Unsigned returns the kind for a base-10 unsigned integer that must fit in bits.
func Unsigned(bits int) Kind {
	return Kind{Type: TypeUnsigned, Bits: bits}
}

// Signed returns the kind for a base-10 signed integer that must fit in bits.
func Signed(bits int) Kind {
	return Kind{Type: TypeSigned, Bits: bits}
}

// String renders the kind the same way ParseKind reads it ("string", "uint16", "int32").
func (k Kind) String() string {
	switch k.Type {
	case TypeString:
		return "string"
	case TypeUnsigned:
		return "uint" + strconv.Itoa(k.Bits)
	case TypeSigned:
		return "int" + strconv.Itoa(k.Bits)
	default:
		return "invalid"
	}
}

func (k Kind) valid() bool {
	switch k.Type {
	case TypeString:
		return true
	case TypeUnsigned, TypeSigned:
		return k.Bits >= 1 && k.Bits <= 64
	default:
		return false
	}
}

// zero is a value of the Go type the kind coerces into. It is used to probe
// rule tags before any request arrives.
func (k Kind) zero() any {
	switch k.Type {
	case TypeUnsigned:
		return uint64(0)
	case TypeSigned:
		return int64(0)
	default:
		return ""
	}
}

// ParseKind reads a parameter declaration.
//
// The declaration is a kind name, optionally followed by ':' and a
// go-playground/validator tag applied to the coerced value:
//
//	"string"
//	"uint16"
//	"int32:min=-10,max=10"
//	"string:alphanum,max=32"
//
// It returns the kind and the (possibly empty) rule.
func ParseKind(decl string) (Kind, string, error) {
	name, rule, _ := strings.Cut(strings.TrimSpace(decl), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	rule = strings.TrimSpace(rule)

	var kind Kind
	switch {
	case name == "string":
		kind = String()
	case strings.HasPrefix(name, "uint"):
		bits, ok := parseBits(strings.TrimPrefix(name, "uint"))
		if !ok {
			return Kind{}, "", fmt.Errorf("unknown parameter kind %q", name)
		}
		kind = Unsigned(bits)
	case strings.HasPrefix(name, "int"):
		bits, ok := parseBits(strings.TrimPrefix(name, "int"))
		if !ok {
			return Kind{}, "", fmt.Errorf("unknown parameter kind %q", name)
		}
		kind = Signed(bits)
	default:
		return Kind{}, "", fmt.Errorf("unknown parameter kind %q", name)
	}

	if !kind.valid() {
		return Kind{}, "", fmt.Errorf("parameter kind %q: bit width must be between 1 and 64", name)
	}

	return kind, rule, nil
}

// parseBits reads a bit width written as plain decimal digits, without a
// sign or leading zeros.
func parseBits(s string) (int, bool) {
	if s == "" || s[0] == '0' || !allDigits(s) {
		return 0, false
	}
	bits, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return bits, true
}

// requiredTag in a declaration's rule marks the parameter as required. It
// is taken out of the rule, so it means "must be present" rather than the
// validator's "must not be the zero value".
const requiredTag = "required"

// ParseField reads a declaration with ParseKind and builds the field for
// name:
//
//	ParseField("id", "uint16:required,min=1")  // Required, Rule "min=1"
func ParseField(name, decl string) (Field, error) {
	kind, rule, err := ParseKind(decl)
	if err != nil {
		return Field{}, err
	}

	f := Field{Name: name, Kind: kind}
	if rule == "" {
		return f, nil
	}

	tags := make([]string, 0, strings.Count(rule, ",")+1)
	for _, tag := range strings.Split(rule, ",") {
		tag = strings.TrimSpace(tag)
		if tag == requiredTag {
			f.Required = true
			continue
		}
		tags = append(tags, tag)
	}
	f.Rule = strings.Join(tags, ",")

	return f, nil
}

// Field declares one permitted parameter.
type Field struct {
	// Name is the query-string key, matched exactly.
	Name string

	// Kind is the type the raw value is coerced into.
	Kind Kind

	// Rule is an optional validator tag checked against the coerced value.
	Rule string

	// Required parameters are reported by Schema.Required. Validate itself
	// treats a missing parameter the same either way.
	Required bool
}

// Schema is the allow-list of parameters a caller accepts.
//
// It is immutable after NewSchema returns.
type Schema struct {
	fields   map[string]Field
	order    []string
	validate *validator.Validate
}

// NewSchema builds a schema from the given fields.
//
// It fails on empty or duplicate names, on invalid kinds, and on rule tags
// the validator does not understand.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields:   make(map[string]Field, len(fields)),
		order:    make([]string, 0, len(fields)),
		validate: validator.New(),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("parameter name must not be empty")
		}
		if _, dup := s.fields[f.Name]; dup {
			return nil, fmt.Errorf("parameter %q declared more than once", f.Name)
		}
		if !f.Kind.valid() {
			return nil, fmt.Errorf("parameter %q: invalid kind %s", f.Name, f.Kind)
		}
		if f.Rule != "" {
			if err := s.checkRule(f); err != nil {
				return nil, err
			}
		}

		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
	}

	return s, nil
}

// checkRule runs the rule once against a zero value. The validator panics on
// unknown tags, so a bad rule is caught here instead of on a live request.
func (s *Schema) checkRule(f Field) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parameter %q: invalid rule %q: %v", f.Name, f.Rule, r)
		}
	}()

	_ = s.validate.Var(f.Kind.zero(), f.Rule)
	return nil
}

// Lookup returns the declaration for name. The accessors below treat a nil
// schema as empty.
func (s *Schema) Lookup(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns the declarations in the order they were given.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	out := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// Required returns the names of required parameters in declaration order.
func (s *Schema) Required() []string {
	if s == nil {
		return nil
	}
	var names []string
	for _, name := range s.order {
		if s.fields[name].Required {
			names = append(names, name)
		}
	}
	return names
}

// Len reports the number of declared parameters.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
