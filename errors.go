package gridify

import "fmt"

// ParseError reports a malformed filter string: a bad token, an unmatched
// parenthesis, or a field with no recognised operator following it.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gridify: parse error at offset %d: %s", e.Offset, e.Message)
}

// UnknownFieldError reports a Compare.Field that does not resolve against
// the active FieldMapper.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("gridify: unknown field %q", e.Field)
}

// UnsupportedOperatorError reports an operator used against a mapped value
// type that can never support it, e.g. Contains against a boolean field.
type UnsupportedOperatorError struct {
	Field string
	Op    CmpOp
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("gridify: operator %s is not supported on field %q", e.Op, e.Field)
}
