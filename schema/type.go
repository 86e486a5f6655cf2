package schema

import "fmt"

// Type is a logical column type. Every property of a mapping carries one,
// and each dialect translates it into a native SQL type through its type
// table. An unknown type is rejected when the spec is compiled, never at
// statement execution time.
type Type uint8

// Logical column types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt
	TypeBigint
	TypeFloat
	TypeDecimal
	TypeString
	TypeText
	TypeBytes
	TypeTime
	TypeUUID
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt:     "integer",
	TypeBigint:  "bigint",
	TypeFloat:   "float",
	TypeDecimal: "decimal",
	TypeString:  "string",
	TypeText:    "text",
	TypeBytes:   "bytes",
	TypeTime:    "time",
	TypeUUID:    "uuid",
}

// String returns the spec-level name of the type (e.g. "integer").
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// Valid reports whether the type is a known logical type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports whether the type holds a numeric value.
func (t Type) Numeric() bool {
	switch t {
	case TypeInt, TypeBigint, TypeFloat, TypeDecimal:
		return true
	}
	return false
}

// ParseType resolves a spec-level type name into a Type. The aliases "int"
// and "string" map to TypeInt and TypeString respectively.
func ParseType(name string) (Type, error) {
	switch name {
	case "int":
		return TypeInt, nil
	case "datetime", "timestamp":
		return TypeTime, nil
	}
	for t := TypeInvalid + 1; t < endTypes; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("schema: unknown logical type %q", name)
}
