package dialect

import (
	"fmt"
	"strings"

	"github.com/syssam/relstore/schema"
)

// TypeTable resolves type handlers by logical type and by native type name.
// Concrete dialects embed one and expose it through ColumnType and
// ColumnTypeByNative.
type TypeTable struct {
	dialect string
	logical map[schema.Type]TypeHandler
	native  map[string]TypeHandler
}

// NewTypeTable builds a table for the named dialect. The native index is
// populated from each handler's Native name; drivers that report additional
// names for the same type register them with WithNative.
func NewTypeTable(dialect string, handlers map[schema.Type]TypeHandler) *TypeTable {
	t := &TypeTable{
		dialect: dialect,
		logical: make(map[schema.Type]TypeHandler, len(handlers)),
		native:  make(map[string]TypeHandler, len(handlers)),
	}
	// Walk logical types in declaration order so that shared native names
	// resolve deterministically.
	for typ := schema.TypeInvalid + 1; ; typ++ {
		h, ok := handlers[typ]
		if !ok {
			if !typ.Valid() {
				break
			}
			continue
		}
		t.logical[typ] = h
		key := normalizeNative(h.Native())
		if _, dup := t.native[key]; !dup {
			t.native[key] = h
		}
	}
	return t
}

// WithNative registers an extra native name for the handler of the given
// logical type and returns the table for chaining.
func (t *TypeTable) WithNative(native string, typ schema.Type) *TypeTable {
	h, ok := t.logical[typ]
	if !ok {
		panic(fmt.Sprintf("dialect: %s: WithNative(%q) for unmapped logical type %q", t.dialect, native, typ))
	}
	t.native[normalizeNative(native)] = h
	return t
}

// ColumnType returns the handler for a logical type.
func (t *TypeTable) ColumnType(typ schema.Type) (TypeHandler, error) {
	h, ok := t.logical[typ]
	if !ok {
		return nil, fmt.Errorf("dialect: %s: unmapped logical type %q", t.dialect, typ)
	}
	return h, nil
}

// ColumnTypeByNative returns the handler for a driver-reported native type
// name. Size suffixes such as "VARCHAR(255)" are ignored.
func (t *TypeTable) ColumnTypeByNative(native string) (TypeHandler, error) {
	h, ok := t.native[normalizeNative(native)]
	if !ok {
		return nil, fmt.Errorf("dialect: %s: unrecognized native column type %q", t.dialect, native)
	}
	return h, nil
}

func normalizeNative(native string) string {
	s := strings.ToUpper(strings.TrimSpace(native))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
