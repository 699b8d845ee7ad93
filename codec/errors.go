package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEnumTag is returned by Decode for a tag outside the decode tables
	ErrUnknownEnumTag = errors.New("unknown enum tag")
	// ErrUnrepresentableEnum is returned by Encode for an unset enumeration
	ErrUnrepresentableEnum = errors.New("unrepresentable enum")
)

// Field names reported in codec errors
const (
	FieldPriority = "priority"
	FieldSource   = "source"
	FieldResponse = "response"
)

// EnumTagError reports a wire tag that has no canonical enumeration
type EnumTagError struct {
	// Field is the wire field carrying the tag
	Field string
	// Tag is the rejected value
	Tag int32
}

func (e *EnumTagError) Error() string {
	return fmt.Sprintf("unknown %s tag %d", e.Field, e.Tag)
}

// Unwrap lets errors.Is match ErrUnknownEnumTag
func (e *EnumTagError) Unwrap() error {
	return ErrUnknownEnumTag
}

// UnrepresentableError reports a canonical field that has no wire tag
type UnrepresentableError struct {
	Field string
}

func (e *UnrepresentableError) Error() string {
	if e.Field == FieldResponse {
		return "cannot encode nil response"
	}
	return fmt.Sprintf("%s is unset and has no wire tag", e.Field)
}

// Unwrap lets errors.Is match ErrUnrepresentableEnum
func (e *UnrepresentableError) Unwrap() error {
	return ErrUnrepresentableEnum
}
