package meta

import "errors"

var (
	// ErrNotStruct is returned when an instance is not a struct or a
	// pointer to a struct.
	ErrNotStruct = errors.New("meta: instance is not a struct")

	// ErrNotRegistered is returned when an instance's dynamic type has no
	// registered descriptor.
	ErrNotRegistered = errors.New("meta: type is not registered")

	// ErrNotInstance is returned when an instance is not an instance of
	// the structure a descriptor operation expects.
	ErrNotInstance = errors.New("meta: instance is not of the expected structure")

	// ErrNoCommonAncestor is returned by package-level Equals and Copy
	// when the two instances' structures share no ancestor.
	ErrNoCommonAncestor = errors.New("meta: structures share no common ancestor")

	// ErrNotAddressable is returned when a copy or deserialize destination
	// was not passed as a pointer.
	ErrNotAddressable = errors.New("meta: destination is not addressable, pass a pointer")

	// ErrBadValue is returned when a serialized value cannot be converted
	// back into a field's type.
	ErrBadValue = errors.New("meta: value is incompatible with field type")
)
