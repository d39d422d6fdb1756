package gridify

import (
	"time"

	"github.com/google/uuid"
)

// fieldKind classifies a mapping entry's target value type V so that the
// predicate compiler knows how to parse an RHS literal and which operators
// the field supports. Mirrors the value-type families spec'd for RHS
// parsing: numeric, boolean, unique-identifier, string, date/time.
type fieldKind int

const (
	kindOpaque fieldKind = iota
	kindString
	kindBool
	kindNumeric
	kindUUID
	kindTime
	kindStringSlice
)

// kindOf infers the fieldKind of V from a boxed zero value of V. Pointer
// variants of the scalar kinds are recognised the same as their base kind;
// the nullability is handled separately by the accessor wrapper.
func kindOf(zero any) fieldKind {
	switch zero.(type) {
	case string, *string:
		return kindString
	case bool, *bool:
		return kindBool
	case int, *int, int8, *int8, int16, *int16, int32, *int32, int64, *int64,
		uint, *uint, uint8, *uint8, uint16, *uint16, uint32, *uint32, uint64, *uint64,
		float32, *float32, float64, *float64:
		return kindNumeric
	case uuid.UUID, *uuid.UUID:
		return kindUUID
	case time.Time, *time.Time:
		return kindTime
	case []string:
		return kindStringSlice
	default:
		return kindOpaque
	}
}

// orderable reports whether values of this kind support Gt/Lt/GtEq/LtEq.
func (k fieldKind) orderable() bool {
	switch k {
	case kindNumeric, kindString, kindTime, kindUUID:
		return true
	default:
		return false
	}
}

// stringLike reports whether values of this kind support Contains,
// StartsWith, and EndsWith via substring semantics.
func (k fieldKind) stringLike() bool {
	return k == kindString
}

// membershipLike reports whether values of this kind support Contains via
// collection element membership rather than substring matching.
func (k fieldKind) membershipLike() bool {
	return k == kindStringSlice
}

// toFloat64 converts any supported numeric Go value to float64 for
// comparison. Returns ok=false for non-numeric input.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
