package schema

import (
	"fmt"

	"github.com/go-openapi/inflect"
)

// Mapping is the compiled, immutable form of a [Spec]. One Mapping exists per
// registered entity type; the store shares it freely across goroutines.
type Mapping struct {
	entity     string
	table      string
	idColumn   string
	idSequence string
	properties []Property
	byName     map[string]int
	byColumn   map[string]int
}

// Property is the compiled form of a [PropertySpec].
type Property struct {
	Name       string
	Column     string
	Type       Type
	Nullable   bool
	Size       int
	Precision  int
	Scale      int
	Default    any
	HasDefault bool
	Unique     bool
}

// Compile validates a spec and builds the Mapping for the named entity type.
// It fails fast on an unknown logical type, a duplicate property name or
// column, or a property colliding with the identifier column.
func Compile(entity string, spec Spec) (*Mapping, error) {
	if entity == "" {
		return nil, fmt.Errorf("schema: compile: empty entity name")
	}
	m := &Mapping{
		entity:     entity,
		table:      spec.Table,
		idColumn:   spec.ID.Column,
		idSequence: spec.ID.Sequence,
		byName:     make(map[string]int, len(spec.Properties)),
		byColumn:   make(map[string]int, len(spec.Properties)),
	}
	if m.table == "" {
		m.table = inflect.Underscore(entity)
	}
	if m.idColumn == "" {
		m.idColumn = "id"
	}
	for _, ps := range spec.Properties {
		if ps.Name == "" {
			return nil, fmt.Errorf("schema: compile %s: property with empty name", entity)
		}
		typ, err := ParseType(ps.Type)
		if err != nil {
			return nil, fmt.Errorf("schema: compile %s: property %q: %w", entity, ps.Name, err)
		}
		p := Property{
			Name:       ps.Name,
			Column:     ps.Column,
			Type:       typ,
			Nullable:   ps.Nullable,
			Size:       ps.Size,
			Precision:  ps.Precision,
			Scale:      ps.Scale,
			Default:    ps.Default,
			HasDefault: ps.Default != nil,
			Unique:     ps.Unique,
		}
		if p.Column == "" {
			p.Column = inflect.Underscore(p.Name)
		}
		if p.Column == m.idColumn {
			return nil, fmt.Errorf("schema: compile %s: property %q collides with id column %q", entity, p.Name, m.idColumn)
		}
		if _, ok := m.byName[p.Name]; ok {
			return nil, fmt.Errorf("schema: compile %s: duplicate property %q", entity, p.Name)
		}
		if _, ok := m.byColumn[p.Column]; ok {
			return nil, fmt.Errorf("schema: compile %s: duplicate column %q", entity, p.Column)
		}
		m.byName[p.Name] = len(m.properties)
		m.byColumn[p.Column] = len(m.properties)
		m.properties = append(m.properties, p)
	}
	return m, nil
}

// MustCompile is like [Compile] but panics on error. Intended for
// package-level mapping variables.
func MustCompile(entity string, spec Spec) *Mapping {
	m, err := Compile(entity, spec)
	if err != nil {
		panic(err)
	}
	return m
}

// Entity returns the entity type name the mapping was compiled for.
func (m *Mapping) Entity() string { return m.entity }

// Table returns the backing table name.
func (m *Mapping) Table() string { return m.table }

// IDColumn returns the identifier column name.
func (m *Mapping) IDColumn() string { return m.idColumn }

// IDSequence returns the identifier sequence name, or "" when the mapping
// declares none.
func (m *Mapping) IDSequence() string { return m.idSequence }

// Properties returns the mapped properties in declaration order. The
// returned slice is shared; callers must not modify it.
func (m *Mapping) Properties() []Property { return m.properties }

// Property returns the property with the given name.
func (m *Mapping) Property(name string) (Property, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Property{}, false
	}
	return m.properties[i], true
}

// PropertyByColumn returns the property backed by the given column.
func (m *Mapping) PropertyByColumn(column string) (Property, bool) {
	i, ok := m.byColumn[column]
	if !ok {
		return Property{}, false
	}
	return m.properties[i], true
}

// Columns returns the property column names in declaration order, without
// the identifier column.
func (m *Mapping) Columns() []string {
	cols := make([]string, len(m.properties))
	for i := range m.properties {
		cols[i] = m.properties[i].Column
	}
	return cols
}

// PrimaryKey returns the primary key column list: the identifier column
// followed by every column marked unique, in declaration order.
func (m *Mapping) PrimaryKey() []string {
	pk := []string{m.idColumn}
	for i := range m.properties {
		if m.properties[i].Unique {
			pk = append(pk, m.properties[i].Column)
		}
	}
	return pk
}
