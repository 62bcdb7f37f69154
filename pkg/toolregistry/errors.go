package toolregistry

import "errors"

var (
	// ErrDuplicateIdentifier is returned when an identifier is registered twice
	ErrDuplicateIdentifier = errors.New("duplicate tool identifier")

	// ErrInvalidDescriptor is returned for descriptors that cannot be registered
	ErrInvalidDescriptor = errors.New("invalid tool descriptor")

	// ErrUnknownTool is returned by Get when no tool has the identifier
	ErrUnknownTool = errors.New("unknown tool")
)
