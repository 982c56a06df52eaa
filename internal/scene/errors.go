package scene

import "errors"

// Domain errors for the scene package.
var (
	// ErrSceneNotFound is returned when no scene matches the requested name.
	ErrSceneNotFound = errors.New("scene: not found")

	// ErrInvalidScene is returned when a loaded scene definition is unusable.
	ErrInvalidScene = errors.New("scene: invalid definition")
)
