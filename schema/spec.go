package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is the caller-supplied, declarative description of one entity type.
// It is the input of [Compile]; nothing reads a Spec after compilation.
type Spec struct {
	// Table is the backing table name. Empty means "derive from the entity
	// name by underscoring".
	Table string `yaml:"table"`

	// ID describes the identifier column.
	ID IDSpec `yaml:"id"`

	// Properties lists the persisted properties in declaration order. The
	// order is significant: generated column lists follow it.
	Properties []PropertySpec `yaml:"-"`
}

// IDSpec describes the identifier column of a mapping.
type IDSpec struct {
	// Column is the identifier column name. Empty means "id".
	Column string `yaml:"column"`

	// Sequence names the database sequence backing identifier generation.
	// Empty means no sequence: identifiers fall back to MAX(id)+1.
	Sequence string `yaml:"sequence"`
}

// PropertySpec describes one persisted property.
type PropertySpec struct {
	// Name is the property name. Required.
	Name string `yaml:"-"`

	// Type is the spec-level logical type name, e.g. "string" or "integer".
	// Required; compilation fails on an unknown type.
	Type string `yaml:"type"`

	// Column is the column name. Empty means "derive from Name by
	// underscoring".
	Column string `yaml:"column"`

	// Nullable marks the column NULL instead of NOT NULL.
	Nullable bool `yaml:"nullable"`

	// Size is the length for sized types (e.g. string → VARCHAR(Size)).
	Size int `yaml:"size"`

	// Precision and Scale parameterize decimal columns.
	Precision int `yaml:"precision"`
	Scale     int `yaml:"scale"`

	// Default is the column default. A nil Default means the column has
	// none. When a property has a default and an entity carries no value
	// for it, inserts omit the column so the database applies the default.
	Default any `yaml:"default"`

	// Unique adds the column to the primary key clause.
	Unique bool `yaml:"unique"`
}

// ParseSpec decodes a YAML mapping specification. Property declaration order
// in the document is preserved.
func ParseSpec(data []byte) (Spec, error) {
	var doc struct {
		Table      string    `yaml:"table"`
		ID         IDSpec    `yaml:"id"`
		Properties yaml.Node `yaml:"properties"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Spec{}, fmt.Errorf("schema: parse spec: %w", err)
	}
	spec := Spec{Table: doc.Table, ID: doc.ID}
	if doc.Properties.IsZero() {
		return spec, nil
	}
	if doc.Properties.Kind != yaml.MappingNode {
		return Spec{}, fmt.Errorf("schema: parse spec: properties must be a mapping, got %s", nodeKind(doc.Properties.Kind))
	}
	// A yaml mapping node stores keys and values interleaved in Content;
	// walking it directly keeps declaration order, which a map would lose.
	for i := 0; i < len(doc.Properties.Content); i += 2 {
		key, val := doc.Properties.Content[i], doc.Properties.Content[i+1]
		var ps PropertySpec
		if err := val.Decode(&ps); err != nil {
			return Spec{}, fmt.Errorf("schema: parse spec: property %q: %w", key.Value, err)
		}
		ps.Name = key.Value
		spec.Properties = append(spec.Properties, ps)
	}
	return spec, nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
