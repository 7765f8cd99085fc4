package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrMissing is matched by every *MissingArtifactError.
	ErrMissing = errors.New("artifact: missing")

	// ErrBadPath indicates an empty, absolute or escaping logical path.
	ErrBadPath = errors.New("artifact: invalid logical path")

	// ErrUnknownFormat indicates an extension other than .json/.yaml/.yml.
	ErrUnknownFormat = errors.New("artifact: unknown format")
)

// MissingArtifactError reports an expected upstream record that is absent.
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("artifact: missing %s", e.Path)
}

// Unwrap lets errors.Is match ErrMissing.
func (e *MissingArtifactError) Unwrap() error { return ErrMissing }
