package render

import (
	"fmt"
	"sort"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/ontology"
	"github.com/c360studio/semindex/vocabulary"
)

// SchemaDraft is the JSON Schema dialect emitted by ClassSchema.
const SchemaDraft = "https://json-schema.org/draft/2020-12/schema"

// ClassSchema builds a JSON Schema object for instances of one class. Own
// and inherited constraints both contribute; properties with a minimum
// cardinality of one become required. Unsatisfiable constraints map to the
// `false` schema, rejecting every instance value for that property.
func ClassSchema(idx *index.Index, id ontology.NodeID) (map[string]any, error) {
	unit, ok := idx.Get(id)
	if !ok {
		return nil, fmt.Errorf("class %s not in index", id)
	}

	properties := make(map[string]any)
	var required []string

	all := make([]constraint.PropertyConstraint, 0, len(unit.Properties)+len(unit.Inherited))
	all = append(all, unit.Properties...)
	all = append(all, unit.Inherited...)
	sort.Slice(all, func(i, j int) bool { return all[i].PropertyIRI < all[j].PropertyIRI })

	for _, pc := range all {
		name := localName(pc.PropertyIRI)
		if _, seen := properties[name]; seen {
			continue
		}
		properties[name] = constraintSchema(pc)
		if pc.MinCardinality >= 1 {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	schema := map[string]any{
		"$schema":              SchemaDraft,
		"$id":                  string(unit.IRI),
		"title":                DisplayName(unit),
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if unit.Definition != "" {
		schema["description"] = unit.Definition
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

// constraintSchema maps one property constraint to a schema value. A
// maximum cardinality of one yields a scalar, anything else an array with
// minItems/maxItems from the cardinality window.
func constraintSchema(pc constraint.PropertyConstraint) any {
	if pc.IsBottom() {
		return false
	}

	item := valueSchema(pc)
	if pc.MaxCardinality != nil && *pc.MaxCardinality == 1 {
		return item
	}

	arr := map[string]any{
		"type":  "array",
		"items": item,
	}
	if pc.MinCardinality > 0 {
		arr["minItems"] = pc.MinCardinality
	}
	if pc.MaxCardinality != nil {
		arr["maxItems"] = *pc.MaxCardinality
	}
	return arr
}

func valueSchema(pc constraint.PropertyConstraint) map[string]any {
	s := map[string]any{"type": jsonType(pc.Ranges)}
	if len(pc.AllowedValues) > 0 {
		enum := make([]any, len(pc.AllowedValues))
		for i, v := range pc.AllowedValues {
			enum[i] = v
		}
		s["enum"] = enum
	}
	if len(pc.Ranges) == 1 && !vocabulary.IsDatatype(pc.Ranges[0]) {
		// Object-valued property: instances reference individuals by IRI.
		s["format"] = "iri"
		s["description"] = "IRI of a " + localName(pc.Ranges[0])
	}
	return s
}

// jsonType maps XSD datatypes to JSON Schema types. Object ranges and
// mixed or absent ranges fall back to string.
func jsonType(ranges []string) string {
	if len(ranges) != 1 {
		return "string"
	}
	switch ranges[0] {
	case vocabulary.XSDInteger, vocabulary.XSDInt, vocabulary.XSDLong:
		return "integer"
	case vocabulary.XSDDecimal, vocabulary.XSDFloat, vocabulary.XSDDouble:
		return "number"
	case vocabulary.XSDBoolean:
		return "boolean"
	default:
		return "string"
	}
}
