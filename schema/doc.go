// Package schema provides the building blocks for describing how an entity
// type maps onto a relational table.
//
// A caller supplies a declarative [Spec], either programmatically or as a
// YAML document, naming the backing table, the identifier column (with an
// optional sequence), and one [PropertySpec] per persisted property. The spec
// is compiled into an immutable [Mapping] that the store uses to generate
// SQL.
//
// # Quick Start
//
// Describe an entity and compile it:
//
//	spec := schema.Spec{
//	    Table: "person",
//	    ID:    schema.IDSpec{Column: "id"},
//	    Properties: []schema.PropertySpec{
//	        {Name: "name", Type: "string"},
//	        {Name: "age", Type: "integer", Nullable: true},
//	    },
//	}
//	m, err := schema.Compile("Person", spec)
//
// The same spec as YAML:
//
//	table: person
//	id:
//	  column: id
//	properties:
//	  name: {type: string}
//	  age:  {type: integer, nullable: true}
//
// Table and column names left empty are derived from the entity or property
// name by underscoring (e.g. "OrderLine" becomes "order_line").
package schema
