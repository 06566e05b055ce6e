package domain

import (
	"encoding/json"
	"fmt"
)

// FieldType is the declared type of one extraction field.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeList    FieldType = "list"
	FieldTypeObject  FieldType = "object"
)

// ValidFieldType reports whether t is one of the declared field types.
// The backend does not enforce this set; it is closed at the client
// boundary only.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeBoolean, FieldTypeList, FieldTypeObject:
		return true
	}
	return false
}

// FieldDefinition is one named, typed field within a schema.
type FieldDefinition struct {
	Name string
	Type FieldType
}

// SchemaDefinition is the client-side template for creating a schema:
// a name, a description and an ordered field list.
type SchemaDefinition struct {
	Name        string
	Description string
	Fields      []FieldDefinition
}

// NewSchemaDefinition validates name and fields and returns a definition
// ready to be sent to the backend. Field names must be unique within the
// schema and every declared type must be known. A definition with zero
// fields is permitted but has no extraction utility.
func NewSchemaDefinition(name, description string, fields []FieldDefinition) (*SchemaDefinition, error) {
	if name == "" {
		return nil, NewValidationError("schema name cannot be empty", nil)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, NewValidationError("field name cannot be empty", nil)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, NewValidationError(fmt.Sprintf("duplicate field name: %s", f.Name), nil)
		}
		seen[f.Name] = struct{}{}
		if !ValidFieldType(f.Type) {
			return nil, NewValidationError(fmt.Sprintf("unknown field type %q for field %s", f.Type, f.Name), nil)
		}
	}

	return &SchemaDefinition{
		Name:        name,
		Description: description,
		Fields:      fields,
	}, nil
}

// DefinitionMap converts the ordered field list into the wire shape the
// backend stores: a JSON object mapping field name to type string.
func (d *SchemaDefinition) DefinitionMap() map[string]string {
	m := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		m[f.Name] = string(f.Type)
	}
	return m
}

// Schema is a backend-registered extraction template.
type Schema struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Definition  json.RawMessage `json:"schema_definition"`
	CreatedDate Time            `json:"created_date"`
	IsActive    bool            `json:"is_active"`
}

// FieldCount returns the number of declared fields. Malformed or absent
// definitions count as zero; this is used for display only.
func (s *Schema) FieldCount() int {
	if len(s.Definition) == 0 {
		return 0
	}
	var m map[string]any
	if err := json.Unmarshal(s.Definition, &m); err != nil {
		return 0
	}
	return len(m)
}
