package dialect

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/relstore/schema"
)

// Handler is a ready-made [TypeHandler] implementation parameterized by the
// native type name and a small set of hooks. Concrete dialects assemble
// their type tables from Handler values, overriding only the hooks whose
// product behavior differs.
type Handler struct {
	// NativeName is the driver-reported type name (e.g. "INTEGER").
	NativeName string

	// Quoted marks types whose literals need single-quoting in DDL.
	Quoted bool

	// Render renders the DDL type clause. Nil means the bare NativeName.
	Render func(p schema.Property) string

	// LiteralFunc overrides default-literal rendering. Nil falls back to
	// fmt.Sprint plus quoting per Quoted.
	LiteralFunc func(v any) string

	// BindFunc coerces a value into a driver argument. Required.
	BindFunc func(v any) (any, error)

	// DestFunc returns a fresh scan destination. Required.
	DestFunc func() any

	// ValueFunc extracts the Go value from a destination. Required.
	ValueFunc func(dest any) (any, error)
}

// Native implements TypeHandler.
func (h Handler) Native() string { return h.NativeName }

// DDL implements TypeHandler.
func (h Handler) DDL(p schema.Property) string {
	if h.Render != nil {
		return h.Render(p)
	}
	return h.NativeName
}

// Literal implements TypeHandler.
func (h Handler) Literal(v any) string {
	if h.LiteralFunc != nil {
		return h.LiteralFunc(v)
	}
	s := fmt.Sprint(v)
	if h.Quoted {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return s
}

// Bind implements TypeHandler. nil passes through as SQL NULL.
func (h Handler) Bind(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return h.BindFunc(v)
}

// ScanDest implements TypeHandler.
func (h Handler) ScanDest() any { return h.DestFunc() }

// Value implements TypeHandler.
func (h Handler) Value(dest any) (any, error) { return h.ValueFunc(dest) }

var _ TypeHandler = Handler{}

// IntHandler returns a handler for integer columns backed by int64 values.
func IntHandler(native string) Handler {
	return Handler{
		NativeName: native,
		BindFunc:   bindInt,
		DestFunc:   func() any { return new(sql.NullInt64) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullInt64)
			if !d.Valid {
				return nil, nil
			}
			return d.Int64, nil
		},
	}
}

// FloatHandler returns a handler for floating point columns.
func FloatHandler(native string) Handler {
	return Handler{
		NativeName: native,
		BindFunc:   bindFloat,
		DestFunc:   func() any { return new(sql.NullFloat64) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullFloat64)
			if !d.Valid {
				return nil, nil
			}
			return d.Float64, nil
		},
	}
}

// BoolHandler returns a handler for boolean columns.
func BoolHandler(native string) Handler {
	return Handler{
		NativeName: native,
		BindFunc: func(v any) (any, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("dialect: cannot bind %T as bool", v)
			}
			return b, nil
		},
		DestFunc: func() any { return new(sql.NullBool) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullBool)
			if !d.Valid {
				return nil, nil
			}
			return d.Bool, nil
		},
	}
}

// StringHandler returns a handler for sized character columns. The DDL
// clause renders as native(size), with defaultSize applied when the property
// declares none.
func StringHandler(native string, defaultSize int) Handler {
	h := stringBased(native)
	h.Render = func(p schema.Property) string {
		size := p.Size
		if size == 0 {
			size = defaultSize
		}
		return fmt.Sprintf("%s(%d)", native, size)
	}
	return h
}

// TextHandler returns a handler for unsized character columns.
func TextHandler(native string) Handler {
	return stringBased(native)
}

// BytesHandler returns a handler for binary columns.
func BytesHandler(native string) Handler {
	return Handler{
		NativeName: native,
		BindFunc: func(v any) (any, error) {
			b, ok := v.([]byte)
			if !ok {
				return nil, fmt.Errorf("dialect: cannot bind %T as bytes", v)
			}
			return b, nil
		},
		DestFunc: func() any { return new(sql.Null[[]byte]) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.Null[[]byte])
			if !d.Valid {
				return nil, nil
			}
			return d.V, nil
		},
	}
}

// TimeHandler returns a handler for products whose driver speaks time.Time
// natively.
func TimeHandler(native string) Handler {
	return Handler{
		NativeName: native,
		Quoted:     true,
		BindFunc:   bindTime,
		DestFunc:   func() any { return new(sql.NullTime) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullTime)
			if !d.Valid {
				return nil, nil
			}
			return d.Time, nil
		},
	}
}

// TextTimeHandler returns a handler storing timestamps as RFC 3339 text, for
// products without a native timestamp type.
func TextTimeHandler(native string) Handler {
	return Handler{
		NativeName: native,
		Quoted:     true,
		BindFunc: func(v any) (any, error) {
			t, err := bindTime(v)
			if err != nil {
				return nil, err
			}
			return t.(time.Time).UTC().Format(time.RFC3339Nano), nil
		},
		DestFunc: func() any { return new(sql.NullString) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullString)
			if !d.Valid {
				return nil, nil
			}
			t, err := time.Parse(time.RFC3339Nano, d.String)
			if err != nil {
				return nil, fmt.Errorf("dialect: parse stored timestamp %q: %w", d.String, err)
			}
			return t, nil
		},
	}
}

// DecimalHandler returns a handler for exact numeric columns. Values round
// trip as strings to avoid float precision loss; the DDL clause renders as
// native(precision, scale) when the property declares a precision.
func DecimalHandler(native string) Handler {
	h := Handler{
		NativeName: native,
		BindFunc: func(v any) (any, error) {
			switch v := v.(type) {
			case string:
				return v, nil
			case int, int32, int64, float32, float64:
				return fmt.Sprint(v), nil
			}
			return nil, fmt.Errorf("dialect: cannot bind %T as decimal", v)
		},
		DestFunc: func() any { return new(sql.NullString) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullString)
			if !d.Valid {
				return nil, nil
			}
			return d.String, nil
		},
	}
	h.Render = func(p schema.Property) string {
		if p.Precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", native, p.Precision, p.Scale)
		}
		return native
	}
	return h
}

// UUIDHandler returns a handler storing UUIDs in their canonical text form.
func UUIDHandler(native string) Handler {
	return Handler{
		NativeName: native,
		Quoted:     true,
		BindFunc: func(v any) (any, error) {
			switch v := v.(type) {
			case uuid.UUID:
				return v.String(), nil
			case string:
				id, err := uuid.Parse(v)
				if err != nil {
					return nil, fmt.Errorf("dialect: cannot bind %q as uuid: %w", v, err)
				}
				return id.String(), nil
			}
			return nil, fmt.Errorf("dialect: cannot bind %T as uuid", v)
		},
		DestFunc: func() any { return new(sql.NullString) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullString)
			if !d.Valid {
				return nil, nil
			}
			id, err := uuid.Parse(d.String)
			if err != nil {
				return nil, fmt.Errorf("dialect: parse stored uuid %q: %w", d.String, err)
			}
			return id, nil
		},
	}
}

func stringBased(native string) Handler {
	return Handler{
		NativeName: native,
		Quoted:     true,
		BindFunc: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("dialect: cannot bind %T as string", v)
			}
			return s, nil
		},
		DestFunc: func() any { return new(sql.NullString) },
		ValueFunc: func(dest any) (any, error) {
			d := dest.(*sql.NullString)
			if !d.Valid {
				return nil, nil
			}
			return d.String, nil
		},
	}
}

func bindInt(v any) (any, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	}
	return nil, fmt.Errorf("dialect: cannot bind %T as integer", v)
}

func bindFloat(v any) (any, error) {
	switch v := v.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("dialect: cannot bind %T as float", v)
}

func bindTime(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("dialect: cannot bind %T as time", v)
	}
	return t, nil
}
