package native

import "errors"

var (
	// ErrUnknownOp is returned when no factory is registered under an op name.
	ErrUnknownOp = errors.New("native: unknown op")

	// ErrDuplicateOp is returned when an op name is registered twice.
	ErrDuplicateOp = errors.New("native: op already registered")

	// ErrSymbolNotFound is returned when a plugin does not export a symbol.
	ErrSymbolNotFound = errors.New("native: symbol not found")

	// ErrBadFactorySignature is returned when an exported symbol is not a factory.
	ErrBadFactorySignature = errors.New("native: symbol is not a user function factory")

	// ErrPluginsUnsupported is returned by Loader.Open on platforms without Go plugins.
	ErrPluginsUnsupported = errors.New("native: plugins are not supported on this platform")

	// ErrMalformed is returned by Deserialize for dictionaries it cannot read.
	ErrMalformed = errors.New("native: malformed serialized function")
)
