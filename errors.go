package drawioexport

import "errors"

// Sentinel errors for library operations.
var (
	// Fatal errors: the run stops before (or instead of) rendering.
	ErrDocumentParse      = errors.New("failed to read diagram document")
	ErrDirectoryCreate    = errors.New("failed to create output directory")
	ErrRendererInvocation = errors.New("failed to start renderer")
	ErrOutputCollision    = errors.New("output path collision")

	// Config validation errors.
	ErrEmptyInputPath         = errors.New("input path cannot be empty")
	ErrInvalidScale           = errors.New("invalid scale")
	ErrInvalidFormat          = errors.New("invalid export format")
	ErrInvalidCollisionPolicy = errors.New("invalid collision policy")
	ErrInvalidExtensionPolicy = errors.New("invalid extension policy")
)
