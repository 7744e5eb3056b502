package model

import (
	"github.com/partite-ai/idlbind/ast"
)

// Record is a dictionary: a named, ordered set of fields passed by value.
type Record struct {
	name   string
	fields []*Field
}

func (r *Record) Name() string     { return r.name }
func (r *Record) Type() Type       { return RecordType{Name: r.name} }
func (r *Record) Fields() []*Field { return r.fields }

func (r *Record) FindField(name string) *Field {
	for _, f := range r.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

type Field struct {
	name         string
	typ          Type
	required     bool
	defaultValue *Literal
}

func (f *Field) Name() string      { return f.name }
func (f *Field) Type() Type        { return f.typ }
func (f *Field) Required() bool    { return f.required }
func (f *Field) Default() *Literal { return f.defaultValue }

func convertRecord(u *typeUniverse, dict *ast.Dictionary) (*Record, error) {
	if dict.Inheritance != nil {
		return nil, unsupported(dict.Identifier, "inheritance is not supported for dictionaries: %s", dict.Identifier)
	}
	if _, err := noAttributeRules.parse("dictionary "+dict.Identifier, dict.Attributes); err != nil {
		return nil, err
	}

	r := &Record{name: dict.Identifier}
	for _, member := range dict.Members {
		if member.Identifier == "" {
			return nil, invalid(dict.Identifier, "anonymous fields are not supported in dictionary %s", dict.Identifier)
		}
		if r.FindField(member.Identifier) != nil {
			return nil, duplicate(member.Identifier, "duplicate field %q in dictionary %s", member.Identifier, dict.Identifier)
		}
		if _, err := noAttributeRules.parse("field "+dict.Identifier+"."+member.Identifier, member.Attributes); err != nil {
			return nil, err
		}
		typ, err := u.resolveTypeExpression(member.Type)
		if err != nil {
			return nil, err
		}
		if member.Required && member.Default != nil {
			return nil, invalid(member.Identifier, "required field %s.%s cannot have a default value", dict.Identifier, member.Identifier)
		}
		def, err := convertLiteral(member.Default, typ)
		if err != nil {
			return nil, err
		}
		r.fields = append(r.fields, &Field{
			name:         member.Identifier,
			typ:          typ,
			required:     member.Required,
			defaultValue: def,
		})
	}
	return r, nil
}
