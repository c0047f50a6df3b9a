package core

import (
	"github.com/cockroachdb/errors"
)

// Leaf errors of the serialization and design pipeline. Layers add context
// with errors.Wrapf; callers match with errors.Is.
var (
	// A type name or type identity has no registry entry.
	ErrNotRegistered = errors.New("type is not registered")
	// The wire type is not convertible to the requested type, or an object
	// claims to be serializable but is not.
	ErrTypeMismatch = errors.New("type mismatch")
	// An empty object was read into a target that cannot represent absence.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// A map's values phase diverges from its keys phase.
	ErrBadMapShape = errors.New("bad map shape")
	// Lower-level JSON shape or parse error.
	ErrMalformedWire = errors.New("malformed wire data")
)
